package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type labelFile struct {
	Classes []string `json:"classes"`
}

// LabelEncoder maps class indices to the raw catalog labels in training
// order.
type LabelEncoder struct {
	classes []string
}

func NewLabelEncoder(classes []string) *LabelEncoder {
	return &LabelEncoder{classes: append([]string(nil), classes...)}
}

func (e *LabelEncoder) Decode(index int) (string, error) {
	if index < 0 || index >= len(e.classes) {
		return "", fmt.Errorf("class index %d out of range", index)
	}
	return e.classes[index], nil
}

func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

func (e *LabelEncoder) Save(path string) error {
	if len(e.classes) == 0 {
		return errors.New("label encoder is empty")
	}
	payload, err := json.Marshal(labelFile{Classes: e.classes})
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (e *LabelEncoder) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var file labelFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return err
	}
	if len(file.Classes) == 0 {
		return errors.New("label encoder has no classes")
	}
	e.classes = file.Classes
	return nil
}
