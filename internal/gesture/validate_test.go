package gesture

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/ayusman/handsign/internal/landmark"
)

// vectorJSON encodes n copies of v as a JSON array.
func vectorJSON(n int, v float64) []byte {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	data, _ := json.Marshal(values)
	return data
}

func TestValidate(t *testing.T) {
	t.Run("accepts 42 numbers as a single-row batch", func(t *testing.T) {
		payload, _ := json.Marshal(landmark.Normalize(landmark.ThumbsUp()).Slice())

		batch, err := Validate(payload)
		if err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if len(batch) != 1 {
			t.Fatalf("expected 1 row, got %d", len(batch))
		}
		if len(batch[0]) != landmark.NumFeatures {
			t.Errorf("expected %d columns, got %d", landmark.NumFeatures, len(batch[0]))
		}
	})

	t.Run("accepts integers and exponents", func(t *testing.T) {
		parts := make([]string, landmark.NumFeatures)
		for i := range parts {
			parts[i] = "1"
		}
		parts[3] = "-2.5e-1"
		v, err := ValidateFeatures([]byte("[" + strings.Join(parts, ",") + "]"))
		if err != nil {
			t.Fatalf("ValidateFeatures() error = %v", err)
		}
		if v[3] != -0.25 || v[0] != 1 {
			t.Errorf("unexpected values: %v", v[:4])
		}
	})

	tests := []struct {
		name    string
		payload string
		want    Kind
		message string
	}{
		{"not json", "hello", KindMalformedEncoding, MsgInvalidFormat},
		{"truncated array", "[0.1, 0.2", KindMalformedEncoding, MsgInvalidFormat},
		{"empty payload", "", KindMalformedEncoding, MsgInvalidFormat},
		{"empty array", "[]", KindWrongArity, MsgWrongArity},
		{"41 values", string(vectorJSON(41, 0)), KindWrongArity, MsgWrongArity},
		{"43 values", string(vectorJSON(43, 0)), KindWrongArity, MsgWrongArity},
		{"63 values", string(vectorJSON(63, 0.5)), KindWrongArity, MsgWrongArity},
		{"object", `{"landmarks": []}`, KindWrongType, MsgWrongType},
		{"number", "42", KindWrongType, MsgWrongType},
		{"string", `"abc"`, KindWrongType, MsgWrongType},
		{"null", "null", KindWrongType, MsgWrongType},
		{"string elements", `["a"` + strings.Repeat(`,"a"`, 41) + `]`, KindWrongType, MsgWrongType},
		{"null element", "[null" + strings.Repeat(",0", 41) + "]", KindWrongType, MsgWrongType},
		{"NaN token", "[NaN" + strings.Repeat(",0", 41) + "]", KindMalformedEncoding, MsgInvalidFormat},
		{"Infinity token", "[Infinity" + strings.Repeat(",0", 41) + "]", KindMalformedEncoding, MsgInvalidFormat},
		{"number out of float64 range", "[1e400" + strings.Repeat(",0", 41) + "]", KindMalformedEncoding, MsgInvalidFormat},
		{"nested arrays", "[[0,0]" + strings.Repeat(",[0,0]", 20) + "]", KindWrongArity, MsgWrongArity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate([]byte(tt.payload))
			if err == nil {
				t.Fatal("expected error")
			}

			var gerr *Error
			if !errors.As(err, &gerr) {
				t.Fatalf("expected *Error, got %T", err)
			}
			if gerr.Kind != tt.want {
				t.Errorf("Kind = %s, want %s", gerr.Kind, tt.want)
			}
			if gerr.Message != tt.message {
				t.Errorf("Message = %q, want %q", gerr.Message, tt.message)
			}
		})
	}

	t.Run("arity is checked before element type", func(t *testing.T) {
		_, err := Validate([]byte(`["a","b"]`))
		if KindOf(err) != KindWrongArity {
			t.Errorf("KindOf() = %s, want %s", KindOf(err), KindWrongArity)
		}
	})
}

func TestKind_String(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds {
		s := k.String()
		if seen[s] {
			t.Errorf("duplicate kind name %q", s)
		}
		seen[s] = true
	}
	if Kind(99).String() != "kind(99)" {
		t.Errorf("unexpected fallback name %q", Kind(99).String())
	}
}
