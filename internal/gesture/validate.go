package gesture

import (
	"encoding/json"

	"github.com/ayusman/handsign/internal/landmark"
)

// Batch is a classifier input: one row of features per request.
type Batch [][]float64

// NewBatch reshapes a single feature vector into a one-row batch.
func NewBatch(v landmark.FeatureVector) Batch {
	return Batch{v.Slice()}
}

// Validate decodes a client payload and returns it as a single-row batch.
// Failures are returned as *Error with KindMalformedEncoding, KindWrongArity
// or KindWrongType.
func Validate(payload []byte) (Batch, error) {
	v, err := ValidateFeatures(payload)
	if err != nil {
		return nil, err
	}
	return NewBatch(v), nil
}

// ValidateFeatures decodes a client payload into a feature vector.
// Arity is checked before element types.
func ValidateFeatures(payload []byte) (landmark.FeatureVector, error) {
	var v landmark.FeatureVector

	var decoded any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return v, &Error{Kind: KindMalformedEncoding, Message: MsgInvalidFormat, Err: err}
	}

	values, ok := decoded.([]any)
	if !ok {
		return v, &Error{Kind: KindWrongType, Message: MsgWrongType}
	}

	if len(values) != landmark.NumFeatures {
		return v, &Error{Kind: KindWrongArity, Message: MsgWrongArity}
	}

	for i, raw := range values {
		f, ok := raw.(float64)
		if !ok {
			return v, &Error{Kind: KindWrongType, Message: MsgWrongType}
		}
		v[i] = f
	}

	return v, nil
}
