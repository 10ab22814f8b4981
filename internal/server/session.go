package server

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/landmark"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionState is the lifecycle position of a websocket session.
type SessionState int32

const (
	StateConnected SessionState = iota
	StateAwaitingMessage
	StateProcessing
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateAwaitingMessage:
		return "awaiting_message"
	case StateProcessing:
		return "processing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Response is the JSON object sent back for every inbound message.
// Exactly one of Gesture or Error is set.
type Response struct {
	Gesture *string `json:"gesture,omitempty"`
	Error   string  `json:"error,omitempty"`
}

const fallbackErrorMessage = "Prediction failed"

// Session is the per-connection state. It carries nothing from one message
// to the next apart from counters used for auditing.
type Session struct {
	ID         string
	RemoteAddr string
	StartedAt  time.Time

	engine    *gesture.Engine
	normalize bool
	logger    *zap.Logger
	metrics   *metrics

	state       atomic.Int32
	messages    int64
	predictions int64
	failures    int64
}

// NewSession creates a session in the Connected state.
func NewSession(engine *gesture.Engine, normalize bool, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Session{
		ID:        id,
		StartedAt: time.Now(),
		engine:    engine,
		normalize: normalize,
		logger:    logger.With(zap.String("session", id)),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) setState(state SessionState) {
	s.state.Store(int32(state))
}

// Handle processes one inbound payload and returns the response to send.
// Every failure is mapped to an error response; the session stays open.
func (s *Session) Handle(payload []byte) Response {
	s.setState(StateProcessing)
	defer s.setState(StateAwaitingMessage)

	s.messages++
	if s.metrics != nil {
		s.metrics.messagesTotal.Add(1)
	}

	features, err := gesture.ValidateFeatures(payload)
	if err != nil {
		return s.fail(err)
	}
	if s.normalize {
		features = landmark.NormalizeFeatures(features)
	}

	label, err := s.engine.Predict(gesture.NewBatch(features))
	if err != nil {
		return s.fail(err)
	}

	s.predictions++
	if s.metrics != nil {
		s.metrics.predictionsTotal.Add(1)
	}
	s.logger.Debug("prediction", zap.String("gesture", label))
	return Response{Gesture: &label}
}

func (s *Session) fail(err error) Response {
	s.failures++
	kind := gesture.KindOf(err)
	if s.metrics != nil {
		s.metrics.recordError(kind)
	}

	if kind == gesture.KindInferenceFailed {
		s.logger.Warn("prediction failed", zap.Error(err))
	} else {
		s.logger.Debug("request rejected", zap.Stringer("kind", kind), zap.Error(err))
	}

	msg := fallbackErrorMessage
	var gerr *gesture.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		msg = gerr.Message
	}
	return Response{Error: msg}
}

// Counts returns the number of messages, predictions, and failures handled.
func (s *Session) Counts() (messages, predictions, failures int64) {
	return s.messages, s.predictions, s.failures
}
