package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Request field names, in the order the model expects its features.
const (
	FieldOrbitalPeriod   = "orbital_period"
	FieldTransitDuration = "transit_duration"
	FieldPlanetaryRadius = "planetary_radius"
)

var requiredFields = []struct {
	name    string
	display string
}{
	{FieldOrbitalPeriod, "Orbital period"},
	{FieldTransitDuration, "Transit duration"},
	{FieldPlanetaryRadius, "Planetary radius"},
}

// Features is one transit observation. All values are strictly positive.
type Features struct {
	OrbitalPeriod   float64 `json:"orbital_period"`
	TransitDuration float64 `json:"transit_duration"`
	PlanetaryRadius float64 `json:"planetary_radius"`
}

func (f Features) Vector() []float64 {
	return []float64{f.OrbitalPeriod, f.TransitDuration, f.PlanetaryRadius}
}

// ParseFeatures validates a decoded request payload. Checks run in phases:
// payload presence, then field presence, then coercibility, then range, so
// a missing field is always reported before a bad value.
func ParseFeatures(payload map[string]any) (Features, error) {
	if len(payload) == 0 {
		return Features{}, &BadInput{Reason: ReasonNoData, Message: "No data provided"}
	}

	for _, field := range requiredFields {
		if _, ok := payload[field.name]; !ok {
			return Features{}, &BadInput{
				Reason:  ReasonMissingField,
				Field:   field.name,
				Message: "Missing required field: " + field.name,
			}
		}
	}

	values := make([]float64, len(requiredFields))
	for i, field := range requiredFields {
		value, err := toFloat(payload[field.name])
		if err != nil {
			return Features{}, &BadInput{
				Reason:  ReasonInvalidType,
				Field:   field.name,
				Message: fmt.Sprintf("Invalid input value: %v", payload[field.name]),
			}
		}
		values[i] = value
	}

	for i, field := range requiredFields {
		if values[i] <= 0 {
			return Features{}, &BadInput{
				Reason:  ReasonOutOfRange,
				Field:   field.name,
				Message: field.display + " must be positive",
			}
		}
	}

	return Features{
		OrbitalPeriod:   values[0],
		TransitDuration: values[1],
		PlanetaryRadius: values[2],
	}, nil
}

// toFloat accepts JSON numbers and numeric strings. Booleans, null,
// objects, arrays and non-finite values are rejected.
func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case json.Number:
		return v.Float64()
	case string:
		value, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, errors.New("not a finite number")
		}
		return value, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}
