package ml

import (
	"errors"
	"fmt"
)

var ErrMissingFeature = errors.New("missing feature")

// Preprocessing holds the fitted label encoders and standard scaler.
type Preprocessing struct {
	// LabelEncoders maps a categorical column to its sorted classes; a
	// value's code is its index.
	LabelEncoders map[string][]string `json:"label_encoders"`
	Scaler        Scaler              `json:"scaler"`
}

type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Encode returns the class index of value in column's encoder. Unknown
// labels, and values that are not strings, encode as 0.
func (p *Preprocessing) Encode(column string, value interface{}) float64 {
	s, ok := value.(string)
	if !ok {
		return 0
	}
	for i, class := range p.LabelEncoders[column] {
		if class == s {
			return float64(i)
		}
	}
	return 0
}

func (p *Preprocessing) isCategorical(column string) bool {
	_, ok := p.LabelEncoders[column]
	return ok
}

// Transform builds the scaled feature vector in featureNames order.
func (p *Preprocessing) Transform(featureNames []string, values map[string]interface{}) ([]float64, error) {
	x := make([]float64, len(featureNames))
	for i, name := range featureNames {
		raw, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFeature, name)
		}
		if p.isCategorical(name) {
			x[i] = p.Encode(name, raw)
		} else {
			v, err := asFloat(raw)
			if err != nil {
				return nil, fmt.Errorf("feature %s: %w", name, err)
			}
			x[i] = v
		}

		scale := p.Scaler.Scale[i]
		if scale == 0 {
			scale = 1
		}
		x[i] = (x[i] - p.Scaler.Mean[i]) / scale
	}
	return x, nil
}

func asFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
