// Package gesture validates inbound feature vectors and runs them through the
// registered classifier.
package gesture

import "fmt"

// Kind classifies a failed request.
type Kind int

const (
	// KindMalformedEncoding means the payload could not be parsed as JSON.
	KindMalformedEncoding Kind = iota + 1
	// KindWrongArity means the payload parsed but did not hold 42 values.
	KindWrongArity
	// KindWrongType means the payload was not an array of numbers.
	KindWrongType
	// KindModelUnavailable means no classifier is loaded.
	KindModelUnavailable
	// KindInferenceFailed means the classifier failed or returned nothing usable.
	KindInferenceFailed
)

// String returns the snake_case name used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindMalformedEncoding:
		return "malformed_encoding"
	case KindWrongArity:
		return "wrong_arity"
	case KindWrongType:
		return "wrong_type"
	case KindModelUnavailable:
		return "model_unavailable"
	case KindInferenceFailed:
		return "inference_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Kinds lists every failure kind in declaration order.
var Kinds = []Kind{
	KindMalformedEncoding,
	KindWrongArity,
	KindWrongType,
	KindModelUnavailable,
	KindInferenceFailed,
}

// Error is a tagged request failure. Message is safe to send to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client-facing messages.
const (
	MsgInvalidFormat  = "Invalid format"
	MsgWrongArity     = "Expected 42 landmark coordinates"
	MsgWrongType      = "Expected numeric landmark coordinates"
	MsgModelNotLoaded = "Model not loaded"
)
