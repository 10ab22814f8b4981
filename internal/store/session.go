package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session is the audit record of one closed websocket session.
type Session struct {
	ID          string    `json:"id"`
	RemoteAddr  string    `json:"remote_addr"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	Messages    int64     `json:"messages"`
	Predictions int64     `json:"predictions"`
	Failures    int64     `json:"failures"`
	CloseReason string    `json:"close_reason"`
}

// SessionRepository stores session audit records.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a session record.
func (r *SessionRepository) Create(rec *Session) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, remote_addr, started_at, ended_at, messages, predictions, failures, close_reason)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.RemoteAddr, rec.StartedAt.UTC(), rec.EndedAt.UTC(),
		rec.Messages, rec.Predictions, rec.Failures, rec.CloseReason,
	)
	return err
}

// GetByID retrieves a session record by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	rec := &Session{}
	err := r.db.QueryRow(
		`SELECT id, remote_addr, started_at, ended_at, messages, predictions, failures, close_reason
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.RemoteAddr, &rec.StartedAt, &rec.EndedAt,
		&rec.Messages, &rec.Predictions, &rec.Failures, &rec.CloseReason)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

// Recent returns up to limit records, most recently started first.
func (r *SessionRepository) Recent(limit int) ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, remote_addr, started_at, ended_at, messages, predictions, failures, close_reason
		 FROM sessions
		 ORDER BY started_at DESC, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*Session{}
	for rows.Next() {
		rec := &Session{}
		if err := rows.Scan(&rec.ID, &rec.RemoteAddr, &rec.StartedAt, &rec.EndedAt,
			&rec.Messages, &rec.Predictions, &rec.Failures, &rec.CloseReason); err != nil {
			return nil, err
		}
		sessions = append(sessions, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
