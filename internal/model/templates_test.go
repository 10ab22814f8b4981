package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fxamacker/cbor/v2"
)

func twoTemplates() *Templates {
	return &Templates{
		Format:    TemplatesFormat,
		Version:   TemplatesVersion,
		NFeatures: 2,
		Templates: []Template{
			{Label: "Left", Features: []float64{0, 0}},
			{Label: "Right", Features: []float64{1, 0}},
		},
	}
}

func TestTemplates_Predict(t *testing.T) {
	tpl := twoTemplates()
	if err := tpl.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	labels, err := tpl.Predict([][]float64{{0.1, 0.2}, {0.8, -0.1}, {0.5, 0}})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	want := []Label{"Left", "Right", "Left"} // the midpoint tie goes to the earlier template
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}

	if _, err := tpl.Predict([][]float64{{1, 2, 3}}); err == nil {
		t.Error("expected width error")
	}
}

func TestTemplates_Tolerance(t *testing.T) {
	tpl := twoTemplates()
	tpl.Templates[0].Tolerance = 0.2
	tpl.Templates[1].Tolerance = 0.2

	if err := tpl.Validate(); err == nil {
		t.Fatal("expected error when tolerance is set without a fallback")
	}

	tpl.Fallback = "None"
	if err := tpl.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	labels, _ := tpl.Predict([][]float64{{0.1, 0}, {0.5, 0}, {1.1, 0}})
	want := []Label{"Left", "None", "Right"}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, labels[i], want[i])
		}
	}
}

func TestTemplates_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Templates)
	}{
		{"wrong format", func(tp *Templates) { tp.Format = ForestFormat }},
		{"wrong version", func(tp *Templates) { tp.Version = 2 }},
		{"no templates", func(tp *Templates) { tp.Templates = nil }},
		{"empty label", func(tp *Templates) { tp.Templates[0].Label = "" }},
		{"short features", func(tp *Templates) { tp.Templates[1].Features = []float64{1} }},
		{"negative tolerance", func(tp *Templates) { tp.Templates[0].Tolerance = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := twoTemplates()
			tt.mutate(tpl)
			if err := tpl.Validate(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOpen_Templates(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "templates.json")
	content := `{"format":"handsign-templates","version":1,"n_features":2,
		"templates":[{"label":"Left","features":[0,0]},{"label":"Right","features":[1,0]}]}`
	if err := os.WriteFile(jsonPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := cbor.Marshal(twoTemplates())
	if err != nil {
		t.Fatal(err)
	}
	cborPath := filepath.Join(dir, "templates.cbor")
	if err := os.WriteFile(cborPath, data, 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, cborPath} {
		c, err := Open(path, Options{})
		if err != nil {
			t.Fatalf("Open(%s) error = %v", filepath.Base(path), err)
		}
		if _, ok := c.(*Templates); !ok {
			t.Fatalf("Open(%s) returned %T, want *Templates", filepath.Base(path), c)
		}
		labels, err := c.Predict([][]float64{{0.9, 0.1}})
		if err != nil || labels[0] != "Right" {
			t.Errorf("Predict() = %v, %v", labels, err)
		}
	}
}
