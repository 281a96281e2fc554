package ml

import (
	"os"
	"path/filepath"
	"testing"
)

func leafTree(label int) *DecisionTree {
	return NewDecisionTree([]TreeNode{{IsLeaf: true, ClassLabel: label}})
}

func TestRandomForestMajorityVote(t *testing.T) {
	forest := NewRandomForest(3, []*DecisionTree{
		leafTree(1), leafTree(1), leafTree(1), leafTree(0),
	})

	label, err := forest.Predict([]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 1 {
		t.Fatalf("expected label 1, got %d", label)
	}

	probs, err := forest.PredictProbabilities([]float64{1, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(probs) != 3 {
		t.Fatalf("expected 3 probabilities, got %d", len(probs))
	}
	if probs[0] != 0.25 || probs[1] != 0.75 || probs[2] != 0 {
		t.Fatalf("unexpected probabilities: %v", probs)
	}
}

func TestRandomForestTieKeepsLowestIndex(t *testing.T) {
	forest := NewRandomForest(3, []*DecisionTree{leafTree(2), leafTree(0)})
	label, err := forest.Predict([]float64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 0 {
		t.Fatalf("expected tie to resolve to label 0, got %d", label)
	}
}

func TestRandomForestEmpty(t *testing.T) {
	forest := &RandomForest{}
	if _, err := forest.Predict([]float64{1}); err == nil {
		t.Fatal("expected error for empty forest")
	}
}

func TestRandomForestLabelOutOfRange(t *testing.T) {
	forest := NewRandomForest(2, []*DecisionTree{leafTree(5)})
	if _, err := forest.PredictProbabilities([]float64{1}); err == nil {
		t.Fatal("expected error for vote outside class range")
	}
}

func TestRandomForestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forest.json")
	forest := NewRandomForest(3, []*DecisionTree{leafTree(2), leafTree(2), leafTree(1)})
	if err := forest.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := &RandomForest{}
	if err := loaded.Load(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.TreeCount() != 3 {
		t.Fatalf("expected 3 trees, got %d", loaded.TreeCount())
	}
	label, err := loaded.Predict([]float64{1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if label != 2 {
		t.Fatalf("expected label 2, got %d", label)
	}
}

func TestRandomForestLoadValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"missing classes", `{"trees":[[{"is_leaf":true,"class_label":0}]]}`},
		{"no trees", `{"n_classes":3,"trees":[]}`},
		{"empty tree", `{"n_classes":3,"trees":[[]]}`},
		{"not json", `not json`},
	}
	for _, c := range cases {
		path := filepath.Join(t.TempDir(), "forest.json")
		if err := os.WriteFile(path, []byte(c.payload), 0o600); err != nil {
			t.Fatal(err)
		}
		forest := &RandomForest{}
		if err := forest.Load(path); err == nil {
			t.Fatalf("expected load error for %s", c.name)
		}
	}
}
