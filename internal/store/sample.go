package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayusman/handsign/internal/landmark"
)

// Sample is a labeled feature vector stored in the database.
type Sample struct {
	ID        int64                  `json:"id"`
	Label     string                 `json:"label"`
	Features  landmark.FeatureVector `json:"features"`
	Source    string                 `json:"source"`
	CreatedAt time.Time              `json:"created_at"`
}

// LabelCount is the number of stored samples for one label.
type LabelCount struct {
	Label   string `json:"label"`
	Samples int    `json:"samples"`
}

// SampleRepository provides CRUD operations for training samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository for this store.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Create inserts samples in a single transaction and sets their ID and CreatedAt.
func (r *SampleRepository) Create(samples []*Sample) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO samples (label, features, source, created_at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, s := range samples {
		data, err := json.Marshal(s.Features)
		if err != nil {
			return err
		}
		res, err := stmt.Exec(s.Label, string(data), s.Source, now)
		if err != nil {
			return err
		}
		if s.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		s.CreatedAt = now
	}

	return tx.Commit()
}

// List returns every sample ordered by label, then insertion order.
func (r *SampleRepository) List() ([]*Sample, error) {
	return r.query(
		`SELECT id, label, features, source, created_at
		 FROM samples
		 ORDER BY label, id`,
	)
}

// ListByLabel returns the samples for one label in insertion order.
func (r *SampleRepository) ListByLabel(label string) ([]*Sample, error) {
	return r.query(
		`SELECT id, label, features, source, created_at
		 FROM samples
		 WHERE label = ?
		 ORDER BY id`,
		label,
	)
}

// Labels returns the sample count per label, ordered by label.
func (r *SampleRepository) Labels() ([]LabelCount, error) {
	rows, err := r.db.Query(`SELECT label, COUNT(*) FROM samples GROUP BY label ORDER BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := []LabelCount{}
	for rows.Next() {
		var c LabelCount
		if err := rows.Scan(&c.Label, &c.Samples); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

// DeleteByLabel removes all samples for a label and returns how many were removed.
func (r *SampleRepository) DeleteByLabel(label string) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM samples WHERE label = ?`, label)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *SampleRepository) query(query string, args ...any) ([]*Sample, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*Sample
	for rows.Next() {
		s := &Sample{}
		var data string
		if err := rows.Scan(&s.ID, &s.Label, &data, &s.Source, &s.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(data), &s.Features); err != nil {
			return nil, fmt.Errorf("sample %d: decode features: %w", s.ID, err)
		}
		samples = append(samples, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return samples, nil
}
