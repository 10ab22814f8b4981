package model

import (
	"strings"
	"testing"

	"github.com/ayusman/handsign/internal/landmark"
	"github.com/ayusman/handsign/testdata"
)

func loadTwoClass(t *testing.T) *Forest {
	t.Helper()
	data, err := testdata.LoadModel(testdata.TwoClassModel)
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	f, err := DecodeForestJSON(data)
	if err != nil {
		t.Fatalf("DecodeForestJSON() error = %v", err)
	}
	return f
}

// stump builds a one-split forest over feature 0.
func stump() *Forest {
	return &Forest{
		Format:    ForestFormat,
		Version:   ForestVersion,
		NFeatures: 2,
		Classes:   []string{"A", "B"},
		Trees: []Tree{{Nodes: []Node{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 2},
			{Left: -1, Right: -1, Value: []float64{3, 1}},
			{Left: -1, Right: -1, Value: []float64{0, 4}},
		}}},
	}
}

func TestForest_Predict(t *testing.T) {
	f := loadTwoClass(t)

	tests := []struct {
		name string
		set  landmark.Set
		want string
	}{
		{"thumbs up", landmark.ThumbsUp(), "ThumbsUp"},
		{"open palm", landmark.OpenPalm(), "Stop"},
		{"shifted thumbs up", landmark.ThumbsUp().Translate(0.2, -0.1), "ThumbsUp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := landmark.Normalize(tt.set)
			labels, err := f.Predict([][]float64{v.Slice()})
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			if len(labels) != 1 || labels[0] != tt.want {
				t.Errorf("Predict() = %v, want [%s]", labels, tt.want)
			}
		})
	}

	t.Run("zero vector returns a trained label", func(t *testing.T) {
		labels, err := f.Predict([][]float64{make([]float64, landmark.NumFeatures)})
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if labels[0] != "Stop" && labels[0] != "ThumbsUp" {
			t.Errorf("Predict() = %q, want one of the trained classes", labels[0])
		}
	})

	t.Run("one label per row", func(t *testing.T) {
		batch := [][]float64{
			landmark.Normalize(landmark.ThumbsUp()).Slice(),
			landmark.Normalize(landmark.OpenPalm()).Slice(),
		}
		labels, err := f.Predict(batch)
		if err != nil {
			t.Fatalf("Predict() error = %v", err)
		}
		if len(labels) != 2 || labels[0] != "ThumbsUp" || labels[1] != "Stop" {
			t.Errorf("Predict() = %v", labels)
		}
	})

	t.Run("rejects wrong width", func(t *testing.T) {
		_, err := f.Predict([][]float64{make([]float64, 10)})
		if err == nil {
			t.Fatal("expected error for 10-feature row")
		}
		if !strings.Contains(err.Error(), "10 features") {
			t.Errorf("unexpected error message: %v", err)
		}
	})
}

func TestForest_TieGoesToLowestClass(t *testing.T) {
	f := stump()
	f.Trees[0].Nodes[1].Value = []float64{2, 2}

	labels, err := f.Predict([][]float64{{0.1, 0}})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if labels[0] != "A" {
		t.Errorf("expected tie to resolve to A, got %s", labels[0])
	}
}

func TestForest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *Forest)
		wantErr bool
	}{
		{"valid", func(f *Forest) {}, false},
		{"wrong format", func(f *Forest) { f.Format = "pickle" }, true},
		{"wrong version", func(f *Forest) { f.Version = 2 }, true},
		{"no features", func(f *Forest) { f.NFeatures = 0 }, true},
		{"no classes", func(f *Forest) { f.Classes = nil }, true},
		{"no trees", func(f *Forest) { f.Trees = nil }, true},
		{"empty tree", func(f *Forest) { f.Trees = append(f.Trees, Tree{}) }, true},
		{"feature out of range", func(f *Forest) { f.Trees[0].Nodes[0].Feature = 2 }, true},
		{"backward child", func(f *Forest) { f.Trees[0].Nodes[0].Right = 0 }, true},
		{"child past end", func(f *Forest) { f.Trees[0].Nodes[0].Right = 3 }, true},
		{"short leaf", func(f *Forest) { f.Trees[0].Nodes[1].Value = []float64{1} }, true},
		{"negative weight", func(f *Forest) { f.Trees[0].Nodes[2].Value = []float64{-1, 1} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := stump()
			tt.mutate(f)
			err := f.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
