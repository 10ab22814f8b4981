package model

import (
	"errors"
	"fmt"
)

// ForestFormat identifies forest artifacts.
const (
	ForestFormat  = "handsign-forest"
	ForestVersion = 1
)

// Forest is a random-forest classifier. Trees vote with their normalized leaf
// distributions and the class with the highest mean probability wins; ties go
// to the lowest class index.
//
// A Forest is immutable after Validate and safe for concurrent use.
type Forest struct {
	Format    string   `json:"format" cbor:"format"`
	Version   int      `json:"version" cbor:"version"`
	NFeatures int      `json:"n_features" cbor:"n_features"`
	Classes   []string `json:"classes" cbor:"classes"`
	Trees     []Tree   `json:"trees" cbor:"trees"`
}

// Tree is one decision tree stored as a flat node array with the root at index 0.
type Tree struct {
	Nodes []Node `json:"nodes" cbor:"nodes"`
}

// Node is a split or a leaf. A node with Left < 0 is a leaf; otherwise samples
// with x[Feature] <= Threshold go Left and the rest go Right.
type Node struct {
	Feature   int       `json:"feature,omitempty" cbor:"feature,omitempty"`
	Threshold float64   `json:"threshold,omitempty" cbor:"threshold,omitempty"`
	Left      int       `json:"left" cbor:"left"`
	Right     int       `json:"right" cbor:"right"`
	Value     []float64 `json:"value,omitempty" cbor:"value,omitempty"`
}

// IsLeaf reports whether n terminates a tree walk.
func (n Node) IsLeaf() bool {
	return n.Left < 0
}

// Validate checks the structural invariants needed for a safe walk:
// children always point forward within the node array, split features are in
// range and leaves carry one weight per class.
func (f *Forest) Validate() error {
	if f.Format != ForestFormat {
		return fmt.Errorf("unsupported artifact format %q", f.Format)
	}
	if f.Version != ForestVersion {
		return fmt.Errorf("unsupported forest version %d", f.Version)
	}
	if f.NFeatures <= 0 {
		return errors.New("n_features must be positive")
	}
	if len(f.Classes) == 0 {
		return errors.New("forest has no classes")
	}
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}

	for ti, tree := range f.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, n := range tree.Nodes {
			if n.IsLeaf() {
				if len(n.Value) != len(f.Classes) {
					return fmt.Errorf("tree %d node %d: leaf has %d values, expected %d", ti, ni, len(n.Value), len(f.Classes))
				}
				for _, w := range n.Value {
					if w < 0 {
						return fmt.Errorf("tree %d node %d: negative leaf weight", ti, ni)
					}
				}
				continue
			}
			if n.Feature < 0 || n.Feature >= f.NFeatures {
				return fmt.Errorf("tree %d node %d: feature %d out of range", ti, ni, n.Feature)
			}
			for _, child := range []int{n.Left, n.Right} {
				if child <= ni || child >= len(tree.Nodes) {
					return fmt.Errorf("tree %d node %d: invalid child index %d", ti, ni, child)
				}
			}
		}
	}

	return nil
}

// Predict returns one label per row.
func (f *Forest) Predict(batch [][]float64) ([]Label, error) {
	labels := make([]Label, len(batch))
	proba := make([]float64, len(f.Classes))

	for i, row := range batch {
		if len(row) != f.NFeatures {
			return nil, fmt.Errorf("X has %d features, but the forest expects %d features as input", len(row), f.NFeatures)
		}

		for c := range proba {
			proba[c] = 0
		}
		for _, tree := range f.Trees {
			leaf := tree.walk(row)
			var total float64
			for _, w := range leaf.Value {
				total += w
			}
			if total == 0 {
				continue
			}
			for c, w := range leaf.Value {
				proba[c] += w / total
			}
		}

		best := 0
		for c := 1; c < len(proba); c++ {
			if proba[c] > proba[best] {
				best = c
			}
		}
		labels[i] = f.Classes[best]
	}

	return labels, nil
}

// walk descends from the root to a leaf. Validate guarantees termination.
func (t Tree) walk(row []float64) Node {
	n := t.Nodes[0]
	for !n.IsLeaf() {
		if row[n.Feature] <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n
}
