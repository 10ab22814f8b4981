//go:build cgo
// +build cgo

package model

import (
	"errors"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXClassifier runs an ONNX Runtime model that maps a float32 [1, n] input
// to an int64 class index. It requires CGO and the onnxruntime shared library.
//
// Tensors are created per call, so concurrent Predict calls share only the
// session, which onnxruntime allows to Run concurrently.
type ONNXClassifier struct {
	session  *ort.DynamicAdvancedSession
	features int
	labels   []string
}

// NewONNXClassifier loads the model at path. InitializeEnvironment is called if not already done.
func NewONNXClassifier(path string, opts ONNXOptions) (*ONNXClassifier, error) {
	if len(opts.Labels) == 0 {
		return nil, errors.New("onnx artifact requires class labels")
	}
	if opts.Features <= 0 {
		return nil, errors.New("onnx artifact requires a positive feature count")
	}

	if !ort.IsInitialized() {
		if opts.LibraryPath != "" {
			ort.SetSharedLibraryPath(opts.LibraryPath)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
		}
	}

	session, err := ort.NewDynamicAdvancedSession(
		path,
		[]string{opts.InputName},
		[]string{opts.OutputName},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXClassifier{
		session:  session,
		features: opts.Features,
		labels:   opts.Labels,
	}, nil
}

// Predict runs the session once per row.
func (c *ONNXClassifier) Predict(batch [][]float64) ([]Label, error) {
	labels := make([]Label, len(batch))
	for i, row := range batch {
		label, err := c.predictRow(row)
		if err != nil {
			return nil, err
		}
		labels[i] = label
	}
	return labels, nil
}

func (c *ONNXClassifier) predictRow(row []float64) (Label, error) {
	if len(row) != c.features {
		return "", fmt.Errorf("X has %d features, but the model expects %d features as input", len(row), c.features)
	}

	data := make([]float32, len(row))
	for i, v := range row {
		data[i] = float32(v)
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(len(data))), data)
	if err != nil {
		return "", fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer input.Destroy()

	output, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return "", fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer output.Destroy()

	if err := c.session.Run([]ort.ArbitraryTensor{input}, []ort.ArbitraryTensor{output}); err != nil {
		return "", fmt.Errorf("inference failed: %w", err)
	}

	idx := output.GetData()[0]
	if idx < 0 || int(idx) >= len(c.labels) {
		return "", fmt.Errorf("model returned class index %d outside %d labels", idx, len(c.labels))
	}
	return c.labels[idx], nil
}

// Close destroys the session.
func (c *ONNXClassifier) Close() error {
	if c.session == nil {
		return nil
	}
	err := c.session.Destroy()
	c.session = nil
	return err
}
