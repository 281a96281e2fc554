package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type forestFile struct {
	NClasses int          `json:"n_classes"`
	Trees    [][]TreeNode `json:"trees"`
}

// RandomForest predicts by majority vote over its trees. The vote shares
// double as the per-class probability distribution.
type RandomForest struct {
	trees    []*DecisionTree
	nClasses int
}

func NewRandomForest(nClasses int, trees []*DecisionTree) *RandomForest {
	return &RandomForest{trees: trees, nClasses: nClasses}
}

func (rf *RandomForest) Predict(features []float64) (int, error) {
	probs, err := rf.PredictProbabilities(features)
	if err != nil {
		return 0, err
	}
	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}
	return best, nil
}

func (rf *RandomForest) PredictProbabilities(features []float64) ([]float64, error) {
	if len(rf.trees) == 0 {
		return nil, errors.New("model not loaded")
	}
	if rf.nClasses <= 0 {
		return nil, errors.New("class count not set")
	}
	votes := make([]float64, rf.nClasses)
	for _, tree := range rf.trees {
		label, err := tree.Predict(features)
		if err != nil {
			return nil, err
		}
		if label < 0 || label >= rf.nClasses {
			return nil, fmt.Errorf("class label %d out of range", label)
		}
		votes[label]++
	}
	total := float64(len(rf.trees))
	for i := range votes {
		votes[i] /= total
	}
	return votes, nil
}

func (rf *RandomForest) TreeCount() int {
	return len(rf.trees)
}

func (rf *RandomForest) Save(path string) error {
	if len(rf.trees) == 0 {
		return errors.New("forest is empty")
	}
	file := forestFile{NClasses: rf.nClasses, Trees: make([][]TreeNode, len(rf.trees))}
	for i, tree := range rf.trees {
		file.Trees[i] = tree.nodes
	}
	payload, err := json.Marshal(file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (rf *RandomForest) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file forestFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return err
	}
	if file.NClasses <= 0 {
		return errors.New("n_classes must be positive")
	}
	if len(file.Trees) == 0 {
		return errors.New("forest is empty")
	}
	trees := make([]*DecisionTree, len(file.Trees))
	for i, nodes := range file.Trees {
		if len(nodes) == 0 {
			return fmt.Errorf("tree %d is empty", i)
		}
		trees[i] = &DecisionTree{nodes: nodes}
	}
	rf.trees = trees
	rf.nClasses = file.NClasses
	return nil
}
