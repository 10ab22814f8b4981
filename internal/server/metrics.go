package server

import (
	"sync/atomic"

	"github.com/ayusman/handsign/internal/gesture"
)

// metrics holds process-wide counters for the status endpoint.
type metrics struct {
	sessionsActive   atomic.Int64
	sessionsTotal    atomic.Uint64
	messagesTotal    atomic.Uint64
	predictionsTotal atomic.Uint64
	errors           []atomic.Uint64 // indexed like gesture.Kinds
}

func newMetrics() *metrics {
	return &metrics{errors: make([]atomic.Uint64, len(gesture.Kinds))}
}

// MetricsSnapshot is a point-in-time copy of the server counters.
type MetricsSnapshot struct {
	SessionsActive   int64             `json:"sessions_active"`
	SessionsTotal    uint64            `json:"sessions_total"`
	MessagesTotal    uint64            `json:"messages_total"`
	PredictionsTotal uint64            `json:"predictions_total"`
	Errors           map[string]uint64 `json:"errors"`
}

func (m *metrics) recordError(kind gesture.Kind) {
	for i, k := range gesture.Kinds {
		if k == kind {
			m.errors[i].Add(1)
			return
		}
	}
}

func (m *metrics) snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		SessionsActive:   m.sessionsActive.Load(),
		SessionsTotal:    m.sessionsTotal.Load(),
		MessagesTotal:    m.messagesTotal.Load(),
		PredictionsTotal: m.predictionsTotal.Load(),
		Errors:           make(map[string]uint64, len(gesture.Kinds)),
	}
	for i, k := range gesture.Kinds {
		s.Errors[k.String()] = m.errors[i].Load()
	}
	return s
}
