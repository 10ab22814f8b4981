package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/ayusman/handsign/internal/dataset"
	"github.com/ayusman/handsign/internal/gesture"
	"github.com/ayusman/handsign/internal/logging"
	"github.com/ayusman/handsign/internal/model"
	"github.com/ayusman/handsign/internal/store"
)

// runEvaluate prints a classification report for a model over a labeled dataset.
func runEvaluate(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	modelPath := fs.String("model", "", "classifier artifact, overrides model.path")
	dataDir := fs.String("data", "", "directory of per-gesture CSV files")
	dbPath := fs.String("db", "", "sqlite database to read samples from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if (*dataDir == "") == (*dbPath == "") {
		return errors.New("exactly one of -data or -db is required")
	}

	cfg, err := loadConfig(*configPath, *modelPath, "")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	reg, err := loadRegistry(cfg, logging.Must(cfg.Debug))
	if err != nil {
		return err
	}
	defer reg.Close()
	if !reg.Loaded() {
		return fmt.Errorf("%w: %s", model.ErrArtifactNotFound, cfg.Model.Path)
	}

	var samples []dataset.Sample
	if *dataDir != "" {
		samples, err = dataset.ReadDir(*dataDir)
	} else {
		samples, err = loadStoredSamples(*dbPath)
	}
	if err != nil {
		return err
	}

	report, err := gesture.Evaluate(gesture.NewEngine(reg), samples, cfg.Model.Normalize())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Model: %s\nSamples: %d\n\n", reg.Source(), len(samples))
	_, err = report.WriteTo(out)
	return err
}

// runImport loads per-gesture CSV files into the sample store.
func runImport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	dataDir := fs.String("data", "", "directory of per-gesture CSV files")
	dbPath := fs.String("db", "", "sqlite database path")
	replace := fs.Bool("replace", false, "delete existing samples for each imported label first")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataDir == "" || *dbPath == "" {
		return errors.New("-data and -db are required")
	}

	samples, err := dataset.ReadDir(*dataDir)
	if err != nil {
		return err
	}

	st, err := store.New(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	rows := make([]*store.Sample, 0, len(samples))
	labels := make(map[string]int)
	for _, s := range samples {
		rows = append(rows, &store.Sample{Label: s.Label, Features: s.Features, Source: s.Source})
		labels[s.Label]++
	}

	if *replace {
		for label := range labels {
			if _, err := st.Samples().DeleteByLabel(label); err != nil {
				return fmt.Errorf("failed to clear %s: %w", label, err)
			}
		}
	}

	if err := st.Samples().Create(rows); err != nil {
		return fmt.Errorf("failed to store samples: %w", err)
	}

	fmt.Fprintf(out, "Imported %d samples across %d labels into %s\n", len(rows), len(labels), *dbPath)
	return nil
}

// runExport writes the stored samples back to one CSV per label.
func runExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dbPath := fs.String("db", "", "sqlite database path")
	outDir := fs.String("out", "", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" || *outDir == "" {
		return errors.New("-db and -out are required")
	}

	samples, err := loadStoredSamples(*dbPath)
	if err != nil {
		return err
	}

	paths, err := dataset.ExportDir(*outDir, samples)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(out, p)
	}
	return nil
}

func loadStoredSamples(dbPath string) ([]dataset.Sample, error) {
	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	rows, err := st.Samples().List()
	if err != nil {
		return nil, fmt.Errorf("failed to list samples: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no samples in %s", dbPath)
	}

	samples := make([]dataset.Sample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, dataset.Sample{Label: r.Label, Features: r.Features, Source: r.Source})
	}
	return samples, nil
}
