package model

import (
	"errors"
	"fmt"
	"math"
)

// TemplatesFormat identifies template artifacts.
const (
	TemplatesFormat  = "handsign-templates"
	TemplatesVersion = 1
)

// Templates is a nearest-template classifier: each input is labeled with the
// template at the smallest Euclidean distance, ties going to the earlier template.
// Templates with a positive Tolerance only match within that distance; when
// nothing is in range the Fallback label is returned.
type Templates struct {
	Format    string     `json:"format" cbor:"format"`
	Version   int        `json:"version" cbor:"version"`
	NFeatures int        `json:"n_features" cbor:"n_features"`
	Fallback  string     `json:"fallback,omitempty" cbor:"fallback,omitempty"`
	Templates []Template `json:"templates" cbor:"templates"`
}

// Template is one reference feature vector for a label.
type Template struct {
	Label     string    `json:"label" cbor:"label"`
	Features  []float64 `json:"features" cbor:"features"`
	Tolerance float64   `json:"tolerance,omitempty" cbor:"tolerance,omitempty"`
}

// Validate checks that every template has the declared width.
func (t *Templates) Validate() error {
	if t.Format != TemplatesFormat {
		return fmt.Errorf("unsupported artifact format %q", t.Format)
	}
	if t.Version != TemplatesVersion {
		return fmt.Errorf("unsupported templates version %d", t.Version)
	}
	if t.NFeatures <= 0 {
		return errors.New("n_features must be positive")
	}
	if len(t.Templates) == 0 {
		return errors.New("artifact has no templates")
	}

	hasTolerance := false
	for i, tpl := range t.Templates {
		if tpl.Label == "" {
			return fmt.Errorf("template %d: empty label", i)
		}
		if len(tpl.Features) != t.NFeatures {
			return fmt.Errorf("template %d: has %d features, expected %d", i, len(tpl.Features), t.NFeatures)
		}
		if tpl.Tolerance < 0 {
			return fmt.Errorf("template %d: negative tolerance", i)
		}
		if tpl.Tolerance > 0 {
			hasTolerance = true
		}
	}
	if hasTolerance && t.Fallback == "" {
		return errors.New("templates with a tolerance need a fallback label")
	}
	return nil
}

// Predict labels every row of batch.
func (t *Templates) Predict(batch [][]float64) ([]Label, error) {
	labels := make([]Label, len(batch))
	for i, row := range batch {
		if len(row) != t.NFeatures {
			return nil, fmt.Errorf("X has %d features, but the templates expect %d features as input", len(row), t.NFeatures)
		}
		labels[i] = t.nearest(row)
	}
	return labels, nil
}

func (t *Templates) nearest(x []float64) Label {
	best := -1
	bestDist := math.Inf(1)
	for i, tpl := range t.Templates {
		d := euclideanDistance(x, tpl.Features)
		if tpl.Tolerance > 0 && d > tpl.Tolerance {
			continue
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return t.Fallback
	}
	return t.Templates[best].Label
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
