package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// StandardScaler centers and rescales each feature with the mean and scale
// recorded at training time.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

func (s *StandardScaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("expected %d features, got %d", len(s.Mean), len(features))
	}
	scaled := make([]float64, len(features))
	for i, v := range features {
		scaled[i] = (v - s.Mean[i]) / s.Scale[i]
	}
	return scaled, nil
}

func (s *StandardScaler) Save(path string) error {
	if len(s.Mean) == 0 {
		return errors.New("scaler is empty")
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, payload, 0o600)
}

func (s *StandardScaler) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var decoded StandardScaler
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return err
	}
	if len(decoded.Mean) == 0 {
		return errors.New("scaler has no features")
	}
	if len(decoded.Mean) != len(decoded.Scale) {
		return errors.New("mean/scale size mismatch")
	}
	for i, v := range decoded.Scale {
		if v == 0 {
			return fmt.Errorf("scale[%d] is zero", i)
		}
	}
	*s = decoded
	return nil
}
