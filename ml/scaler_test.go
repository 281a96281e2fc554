package ml

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStandardScalerTransform(t *testing.T) {
	scaler := &StandardScaler{Mean: []float64{1, 2, 3}, Scale: []float64{2, 2, 2}}
	scaled, err := scaler.Transform([]float64{3, 4, 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scaled[0] != 1 || scaled[1] != 1 || scaled[2] != 1 {
		t.Fatalf("unexpected scaled values: %v", scaled)
	}
}

func TestStandardScalerTransformSizeMismatch(t *testing.T) {
	scaler := &StandardScaler{Mean: []float64{1, 2, 3}, Scale: []float64{2, 2, 2}}
	if _, err := scaler.Transform([]float64{1}); err == nil {
		t.Fatal("expected error for wrong feature count")
	}
}

func TestStandardScalerSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scaler.json")
	scaler := &StandardScaler{Mean: []float64{10, 20}, Scale: []float64{2, 4}}
	if err := scaler.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := &StandardScaler{}
	if err := loaded.Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scaled, err := loaded.Transform([]float64{12, 28})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scaled[0] != 1 || scaled[1] != 2 {
		t.Fatalf("unexpected scaled values: %v", scaled)
	}
}

func TestStandardScalerLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"empty", `{"mean":[],"scale":[]}`},
		{"size mismatch", `{"mean":[1,2],"scale":[1]}`},
		{"zero scale", `{"mean":[1,2],"scale":[1,0]}`},
	}
	for _, c := range cases {
		path := filepath.Join(t.TempDir(), "scaler.json")
		if err := os.WriteFile(path, []byte(c.payload), 0o600); err != nil {
			t.Fatal(err)
		}
		scaler := &StandardScaler{}
		if err := scaler.Load(path); err == nil {
			t.Fatalf("expected load error for %s", c.name)
		}
	}
}
