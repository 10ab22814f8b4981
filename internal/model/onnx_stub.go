//go:build !cgo
// +build !cgo

package model

import (
	"errors"
)

// ONNXClassifier stub type when built without CGO (see onnx.go for real implementation).
type ONNXClassifier struct{}

// NewONNXClassifier returns an error when built without CGO (ONNX not available).
func NewONNXClassifier(_ string, _ ONNXOptions) (*ONNXClassifier, error) {
	return nil, errors.New("ONNX classifier requires CGO; build with CGO_ENABLED=1 and onnxruntime")
}

// Predict is never reached; NewONNXClassifier always fails without CGO.
func (c *ONNXClassifier) Predict(_ [][]float64) ([]Label, error) {
	return nil, errors.New("ONNX classifier requires CGO")
}
