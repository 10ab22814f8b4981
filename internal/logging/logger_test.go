package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		debug        bool
		debugEnabled bool
	}{
		{debug: true, debugEnabled: true},
		{debug: false, debugEnabled: false},
	}
	for _, tt := range tests {
		logger, err := New(tt.debug)
		if err != nil {
			t.Fatalf("New(%v) error = %v", tt.debug, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != tt.debugEnabled {
			t.Errorf("New(%v): debug enabled = %v, want %v", tt.debug, got, tt.debugEnabled)
		}
	}
}

func TestMust(t *testing.T) {
	if Must(false) == nil {
		t.Fatal("Must() returned nil")
	}
}
