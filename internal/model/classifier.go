// Package model provides the gesture classifier contract, the artifact formats
// that implement it, and the registry that owns the loaded classifier.
package model

// Label is a gesture class emitted by a classifier. The set of labels is
// defined by the trained artifact and is never validated.
type Label = string

// Classifier predicts one label per input row.
// Implementations must be safe for concurrent use.
type Classifier interface {
	Predict(batch [][]float64) ([]Label, error)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(batch [][]float64) ([]Label, error)

// Predict calls f(batch).
func (f ClassifierFunc) Predict(batch [][]float64) ([]Label, error) {
	return f(batch)
}

// Closer is implemented by classifiers that hold native resources.
type Closer interface {
	Close() error
}
