package landmark

// ThumbsUp returns a preset landmark set for a right-hand thumbs up.
// The thumb is extended upward while the other fingers are curled.
func ThumbsUp() Set {
	var s Set

	s[Wrist] = Point{X: 0.5, Y: 0.8}

	// Thumb extended upward (Y decreases going up)
	s[ThumbCMC] = Point{X: 0.55, Y: 0.75}
	s[ThumbMCP] = Point{X: 0.58, Y: 0.65}
	s[ThumbIP] = Point{X: 0.58, Y: 0.50}
	s[ThumbTip] = Point{X: 0.58, Y: 0.35}

	// Fingers curled, tips back near the palm
	s[IndexMCP] = Point{X: 0.55, Y: 0.70}
	s[IndexPIP] = Point{X: 0.55, Y: 0.68}
	s[IndexDIP] = Point{X: 0.52, Y: 0.70}
	s[IndexTip] = Point{X: 0.50, Y: 0.72}

	s[MiddleMCP] = Point{X: 0.50, Y: 0.68}
	s[MiddlePIP] = Point{X: 0.50, Y: 0.66}
	s[MiddleDIP] = Point{X: 0.47, Y: 0.68}
	s[MiddleTip] = Point{X: 0.45, Y: 0.70}

	s[RingMCP] = Point{X: 0.45, Y: 0.70}
	s[RingPIP] = Point{X: 0.45, Y: 0.68}
	s[RingDIP] = Point{X: 0.42, Y: 0.70}
	s[RingTip] = Point{X: 0.40, Y: 0.72}

	s[PinkyMCP] = Point{X: 0.40, Y: 0.72}
	s[PinkyPIP] = Point{X: 0.40, Y: 0.70}
	s[PinkyDIP] = Point{X: 0.37, Y: 0.72}
	s[PinkyTip] = Point{X: 0.35, Y: 0.74}

	return s
}

// OpenPalm returns a preset landmark set for an open palm ("Stop").
// All fingers are extended.
func OpenPalm() Set {
	var s Set

	s[Wrist] = Point{X: 0.5, Y: 0.8}

	s[ThumbCMC] = Point{X: 0.55, Y: 0.75}
	s[ThumbMCP] = Point{X: 0.62, Y: 0.70}
	s[ThumbIP] = Point{X: 0.68, Y: 0.65}
	s[ThumbTip] = Point{X: 0.73, Y: 0.60}

	s[IndexMCP] = Point{X: 0.55, Y: 0.68}
	s[IndexPIP] = Point{X: 0.57, Y: 0.55}
	s[IndexDIP] = Point{X: 0.58, Y: 0.45}
	s[IndexTip] = Point{X: 0.58, Y: 0.35}

	// Middle finger is the longest
	s[MiddleMCP] = Point{X: 0.50, Y: 0.66}
	s[MiddlePIP] = Point{X: 0.50, Y: 0.52}
	s[MiddleDIP] = Point{X: 0.50, Y: 0.40}
	s[MiddleTip] = Point{X: 0.50, Y: 0.28}

	s[RingMCP] = Point{X: 0.45, Y: 0.68}
	s[RingPIP] = Point{X: 0.43, Y: 0.55}
	s[RingDIP] = Point{X: 0.42, Y: 0.45}
	s[RingTip] = Point{X: 0.42, Y: 0.35}

	s[PinkyMCP] = Point{X: 0.40, Y: 0.70}
	s[PinkyPIP] = Point{X: 0.37, Y: 0.60}
	s[PinkyDIP] = Point{X: 0.35, Y: 0.50}
	s[PinkyTip] = Point{X: 0.34, Y: 0.42}

	return s
}

// Translate returns a copy of s shifted by (dx, dy).
func (s Set) Translate(dx, dy float64) Set {
	out := s
	for i := range out {
		out[i].X += dx
		out[i].Y += dy
	}
	return out
}
