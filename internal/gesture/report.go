package gesture

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ayusman/handsign/internal/dataset"
	"github.com/ayusman/handsign/internal/landmark"
)

// ClassStats holds per-label precision and recall figures.
type ClassStats struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// Report summarizes a classifier run over a labeled dataset.
type Report struct {
	Total    int
	Correct  int
	Failures int
	Accuracy float64
	Classes  []ClassStats
}

// Evaluate runs every sample through the engine and compares predictions to
// the sample labels. Samples whose prediction fails are counted in Failures and
// as misses for their label. A missing model aborts the run. When normalize is
// set, features are made wrist-relative first, as the serving path does.
func Evaluate(engine *Engine, samples []dataset.Sample, normalize bool) (*Report, error) {
	if len(samples) == 0 {
		return nil, errors.New("no samples to evaluate")
	}

	truePos := make(map[string]int)
	predicted := make(map[string]int)
	support := make(map[string]int)

	r := &Report{Total: len(samples)}
	for _, s := range samples {
		support[s.Label]++

		features := s.Features
		if normalize {
			features = landmark.NormalizeFeatures(features)
		}

		label, err := engine.Predict(NewBatch(features))
		if err != nil {
			if KindOf(err) == KindModelUnavailable {
				return nil, err
			}
			r.Failures++
			continue
		}

		predicted[label]++
		if label == s.Label {
			truePos[label]++
			r.Correct++
		}
	}

	r.Accuracy = float64(r.Correct) / float64(r.Total)

	labels := make(map[string]struct{})
	for l := range support {
		labels[l] = struct{}{}
	}
	for l := range predicted {
		labels[l] = struct{}{}
	}

	for l := range labels {
		cs := ClassStats{Label: l, Support: support[l]}
		if predicted[l] > 0 {
			cs.Precision = float64(truePos[l]) / float64(predicted[l])
		}
		if support[l] > 0 {
			cs.Recall = float64(truePos[l]) / float64(support[l])
		}
		if cs.Precision+cs.Recall > 0 {
			cs.F1 = 2 * cs.Precision * cs.Recall / (cs.Precision + cs.Recall)
		}
		r.Classes = append(r.Classes, cs)
	}
	sort.Slice(r.Classes, func(i, j int) bool {
		return r.Classes[i].Label < r.Classes[j].Label
	})

	return r, nil
}

// WriteTo prints the report as an aligned text table.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 0, 2, ' ', tabwriter.AlignRight)

	fmt.Fprintf(tw, "label\tprecision\trecall\tf1-score\tsupport\t\n")
	for _, c := range r.Classes {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%d\t\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	if err := tw.Flush(); err != nil {
		return cw.n, err
	}

	_, err := fmt.Fprintf(cw, "\nAccuracy: %.2f%% (%d/%d, %d failed)\n", r.Accuracy*100, r.Correct, r.Total, r.Failures)
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
