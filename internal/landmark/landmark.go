// Package landmark provides hand landmark types and the feature normalization
// used by the gesture classifier.
package landmark

import "fmt"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// NumFeatures is the length of a flattened feature vector (x and y per landmark).
const NumFeatures = NumLandmarks * 2

// Point represents a landmark position in image-normalized coordinates.
// Both axes are in [0,1] with the origin at the top-left of the frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Set is one detected hand: the 21 landmarks in MediaPipe order.
type Set [NumLandmarks]Point

// FeatureVector is the flattened classifier input:
// [lm_0_x, lm_0_y, lm_1_x, lm_1_y, ..., lm_20_x, lm_20_y].
type FeatureVector [NumFeatures]float64

// Normalize converts a landmark set into a wrist-relative feature vector.
// The wrist x is subtracted from every x and the wrist y from every y, so the
// first two elements of the result are always zero.
func Normalize(s Set) FeatureVector {
	var v FeatureVector
	wrist := s[Wrist]
	for i, p := range s {
		v[2*i] = p.X - wrist.X
		v[2*i+1] = p.Y - wrist.Y
	}
	return v
}

// NormalizeFeatures applies Normalize to an already flattened vector.
// Vectors that are already wrist-relative are returned unchanged.
func NormalizeFeatures(v FeatureVector) FeatureVector {
	return Normalize(v.Set())
}

// Set unflattens the vector back into landmark points.
func (v FeatureVector) Set() Set {
	var s Set
	for i := range s {
		s[i] = Point{X: v[2*i], Y: v[2*i+1]}
	}
	return s
}

// Slice returns the vector as a freshly allocated slice.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v[:])
	return out
}

// FromSlice builds a FeatureVector from exactly NumFeatures values.
func FromSlice(values []float64) (FeatureVector, error) {
	var v FeatureVector
	if len(values) != NumFeatures {
		return v, fmt.Errorf("expected %d features, got %d", NumFeatures, len(values))
	}
	copy(v[:], values)
	return v, nil
}

// ColumnNames returns the dataset column names for the feature vector, in order.
func ColumnNames() []string {
	names := make([]string, 0, NumFeatures)
	for i := 0; i < NumLandmarks; i++ {
		names = append(names, fmt.Sprintf("lm_%d_x", i), fmt.Sprintf("lm_%d_y", i))
	}
	return names
}
