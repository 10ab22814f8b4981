package gesture

import (
	"errors"
	"fmt"

	"github.com/ayusman/handsign/internal/model"
)

// Engine runs validated batches through the registry's classifier.
// It holds no per-request state and is safe for concurrent use.
type Engine struct {
	registry *model.Registry
}

// NewEngine creates an Engine that reads classifiers from reg.
func NewEngine(reg *model.Registry) *Engine {
	return &Engine{registry: reg}
}

// Predict returns the label for the first row of batch.
// Failures are returned as *Error with KindModelUnavailable or
// KindInferenceFailed; a panicking classifier is reported as KindInferenceFailed.
func (e *Engine) Predict(batch Batch) (label model.Label, err error) {
	classifier, ok := e.registry.Current()
	if !ok {
		return "", &Error{Kind: KindModelUnavailable, Message: MsgModelNotLoaded}
	}

	defer func() {
		if r := recover(); r != nil {
			label = ""
			err = &Error{Kind: KindInferenceFailed, Message: fmt.Sprint(r)}
		}
	}()

	labels, perr := classifier.Predict(batch)
	if perr != nil {
		return "", &Error{Kind: KindInferenceFailed, Message: perr.Error(), Err: perr}
	}
	if len(labels) == 0 {
		return "", &Error{Kind: KindInferenceFailed, Message: "classifier returned no prediction"}
	}

	return labels[0], nil
}

// KindOf returns the Kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return 0
}
