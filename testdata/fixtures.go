// Package testdata embeds model artifacts and datasets shared by tests.
package testdata

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed models/* datasets/*
var fixturesFS embed.FS

// TwoClassModel is a forest artifact trained on {"Stop", "ThumbsUp"}.
const TwoClassModel = "two_class.json"

// LoadModel returns the raw bytes of an embedded model artifact.
func LoadModel(name string) ([]byte, error) {
	data, err := fixturesFS.ReadFile("models/" + name)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", name, err)
	}
	return data, nil
}

// WriteModel copies an embedded model artifact into dir and returns its path.
func WriteModel(dir, name string) (string, error) {
	data, err := LoadModel(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write model %s: %w", name, err)
	}
	return path, nil
}

// WriteDatasets copies the embedded per-gesture CSV files into dir, creating it if needed.
func WriteDatasets(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	entries, err := fixturesFS.ReadDir("datasets")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := fixturesFS.ReadFile("datasets/" + entry.Name())
		if err != nil {
			return fmt.Errorf("load dataset %s: %w", entry.Name(), err)
		}
		if err := os.WriteFile(filepath.Join(dir, entry.Name()), data, 0644); err != nil {
			return fmt.Errorf("write dataset %s: %w", entry.Name(), err)
		}
	}

	return nil
}
