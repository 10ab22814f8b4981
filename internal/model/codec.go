package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Options configures artifact decoding. Only the ONNX format uses it.
type Options struct {
	ONNX ONNXOptions
}

// ONNXOptions describes how to drive an ONNX artifact.
type ONNXOptions struct {
	// LibraryPath is the onnxruntime shared library. Empty uses the platform default.
	LibraryPath string
	// InputName is the float32 [1, n] input tensor.
	InputName string
	// OutputName is the int64 class-index output tensor.
	OutputName string
	// Features is the input width.
	Features int
	// Labels maps class indices to labels.
	Labels []string
}

// Open decodes the artifact at path, choosing the encoding by file extension:
// .json and .cbor hold forest or template artifacts, told apart by their
// format field, and .onnx holds an ONNX Runtime model.
func Open(path string, opts Options) (Classifier, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".json", ".cbor":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read model artifact: %w", err)
		}
		var c Classifier
		if ext == ".json" {
			c, err = decodeArtifact(data, json.Unmarshal)
		} else {
			c, err = decodeArtifact(data, cbor.Unmarshal)
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return c, nil

	case ".onnx":
		c, err := NewONNXClassifier(path, opts.ONNX)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unsupported model artifact extension %q", ext)
	}
}

type unmarshalFunc func(data []byte, v any) error

// decodeArtifact reads the format field and decodes the matching artifact.
func decodeArtifact(data []byte, unmarshal unmarshalFunc) (Classifier, error) {
	var header struct {
		Format string `json:"format" cbor:"format"`
	}
	if err := unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}

	switch header.Format {
	case ForestFormat:
		var f Forest
		if err := unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse forest: %w", err)
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		return &f, nil
	case TemplatesFormat:
		var t Templates
		if err := unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("failed to parse templates: %w", err)
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		return &t, nil
	default:
		return nil, fmt.Errorf("unsupported artifact format %q", header.Format)
	}
}

// DecodeForestJSON parses and validates a JSON forest artifact.
func DecodeForestJSON(data []byte) (*Forest, error) {
	var f Forest
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse forest: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// EncodeForestCBOR serializes f in the CBOR artifact format.
func EncodeForestCBOR(f *Forest) ([]byte, error) {
	return cbor.Marshal(f)
}
