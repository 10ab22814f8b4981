package store

import (
	"errors"
	"testing"
	"time"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	repo := newTestStore(t).Sessions()

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &Session{
		ID:          "a1b2",
		RemoteAddr:  "127.0.0.1:50000",
		StartedAt:   start,
		EndedAt:     start.Add(90 * time.Second),
		Messages:    12,
		Predictions: 10,
		Failures:    2,
		CloseReason: "client_closed",
	}
	if err := repo.Create(rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID("a1b2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Messages != 12 || got.Predictions != 10 || got.Failures != 2 {
		t.Errorf("unexpected counters: %+v", got)
	}
	if !got.StartedAt.Equal(start) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, start)
	}
	if got.EndedAt.Sub(got.StartedAt) != 90*time.Second {
		t.Errorf("unexpected duration %v", got.EndedAt.Sub(got.StartedAt))
	}
	if got.CloseReason != "client_closed" {
		t.Errorf("CloseReason = %q", got.CloseReason)
	}

	if err := repo.Create(rec); err == nil {
		t.Error("expected duplicate ID to fail")
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	repo := newTestStore(t).Sessions()

	_, err := repo.GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestSessionRepository_Recent(t *testing.T) {
	repo := newTestStore(t).Sessions()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		start := base.Add(time.Duration(i) * time.Minute)
		if err := repo.Create(&Session{ID: id, StartedAt: start, EndedAt: start}); err != nil {
			t.Fatal(err)
		}
	}

	recent, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d records", len(recent))
	}
	if recent[0].ID != "third" || recent[1].ID != "second" {
		t.Errorf("unexpected order: %s, %s", recent[0].ID, recent[1].ID)
	}
}
