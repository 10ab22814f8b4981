// Package dataset reads and writes per-gesture landmark CSV files.
//
// Each file holds one gesture class: a header of 42 feature columns
// (lm_0_x, lm_0_y, ..., lm_20_y) followed by a label column, and one row per
// captured sample with the gesture name repeated in the label column.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ayusman/handsign/internal/landmark"
)

// LabelColumn is the name of the trailing label column.
const LabelColumn = "label"

// ErrNoFiles is returned by ReadDir when the directory holds no CSV files.
var ErrNoFiles = errors.New("no CSV files found")

// Sample is one labeled feature vector.
type Sample struct {
	Label    string
	Features landmark.FeatureVector
	Source   string // file the sample was read from, if any
	Line     int    // 1-based line in Source
}

// Header returns the full CSV header.
func Header() []string {
	return append(landmark.ColumnNames(), LabelColumn)
}

// Read parses samples from r. source is used in error messages and recorded on each sample.
func Read(r io.Reader, source string) ([]Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: empty file", source)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", source, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}

	var samples []Sample
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, line, err)
		}

		s, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", source, line, err)
		}
		s.Source = source
		s.Line = line
		samples = append(samples, s)
	}

	return samples, nil
}

// ReadFile parses one dataset file.
func ReadFile(path string) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f, path)
}

// ReadDir parses every *.csv file in dir, in name order.
func ReadDir(dir string) ([]Sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		names = append(names, entry.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}
	sort.Strings(names)

	var all []Sample
	for _, name := range names {
		samples, err := ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		all = append(all, samples...)
	}

	return all, nil
}

// Write writes samples with a header to w.
func Write(w io.Writer, samples []Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}

	record := make([]string, landmark.NumFeatures+1)
	for _, s := range samples {
		for i, v := range s.Features {
			record[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		record[landmark.NumFeatures] = s.Label
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportDir writes one <label>.csv per label into dir and returns the paths written.
func ExportDir(dir string, samples []Sample) ([]string, error) {
	byLabel := make(map[string][]Sample)
	var labels []string
	for _, s := range samples {
		if _, ok := byLabel[s.Label]; !ok {
			if err := checkLabel(s.Label); err != nil {
				return nil, err
			}
			labels = append(labels, s.Label)
		}
		byLabel[s.Label] = append(byLabel[s.Label], s)
	}
	sort.Strings(labels)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}

	paths := make([]string, 0, len(labels))
	for _, label := range labels {
		path := filepath.Join(dir, label+".csv")
		if err := writeFile(path, byLabel[label]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func writeFile(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Write(f, samples); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func checkHeader(header []string) error {
	want := Header()
	if len(header) != len(want) {
		return fmt.Errorf("header has %d columns, expected %d", len(header), len(want))
	}
	for i, name := range want {
		if strings.TrimSpace(header[i]) != name {
			return fmt.Errorf("header column %d is %q, expected %q", i, header[i], name)
		}
	}
	return nil
}

func parseRecord(record []string) (Sample, error) {
	var s Sample
	if len(record) != landmark.NumFeatures+1 {
		return s, fmt.Errorf("row has %d columns, expected %d", len(record), landmark.NumFeatures+1)
	}

	for i := 0; i < landmark.NumFeatures; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
		if err != nil {
			return s, fmt.Errorf("column %s: %w", landmark.ColumnNames()[i], err)
		}
		s.Features[i] = v
	}

	s.Label = strings.TrimSpace(record[landmark.NumFeatures])
	if s.Label == "" {
		return s, errors.New("empty label")
	}
	return s, nil
}

// checkLabel rejects labels that cannot be used as a file name.
func checkLabel(label string) error {
	if label == "" || label == "." || label == ".." || strings.ContainsAny(label, `/\`) {
		return fmt.Errorf("label %q cannot be used as a file name", label)
	}
	return nil
}
