// Package ml loads the exported cost model artifacts and evaluates the
// voting ensemble without any Python runtime.
package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Artifact file names inside the model directory.
const (
	FeatureNamesFile      = "feature_names.json"
	FeatureImportanceFile = "feature_importance.json"
	PreprocessingFile     = "preprocessing.json"
	EnsembleFile          = "ensemble.json"
)

var ErrInvalidArtifact = errors.New("invalid model artifact")

// Model is a loaded, validated artifact set. It is read-only after
// construction and safe for concurrent use.
type Model struct {
	featureNames  []string
	importance    map[string]map[string]float64
	preprocessing Preprocessing
	ensemble      Ensemble
}

// Prediction is the ensemble output for one profile.
type Prediction struct {
	Value      float64
	Individual map[string]float64
}

// FeatureWeight is a feature's importance averaged over reporting models.
type FeatureWeight struct {
	Feature    string
	Importance float64
}

// New validates the parts and assembles a Model.
func New(featureNames []string, importance map[string]map[string]float64, pre Preprocessing, ensemble Ensemble) (*Model, error) {
	n := len(featureNames)
	if n == 0 {
		return nil, fmt.Errorf("%w: no feature names", ErrInvalidArtifact)
	}
	if len(pre.Scaler.Mean) != n || len(pre.Scaler.Scale) != n {
		return nil, fmt.Errorf("%w: scaler has %d/%d entries for %d features",
			ErrInvalidArtifact, len(pre.Scaler.Mean), len(pre.Scaler.Scale), n)
	}
	if err := ensemble.validate(n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if importance == nil {
		importance = map[string]map[string]float64{}
	}
	return &Model{
		featureNames:  featureNames,
		importance:    importance,
		preprocessing: pre,
		ensemble:      ensemble,
	}, nil
}

// Load reads the four artifact files from dir.
func Load(dir string) (*Model, error) {
	var (
		names      []string
		importance map[string]map[string]float64
		pre        Preprocessing
		ensemble   Ensemble
	)
	files := []struct {
		name   string
		target interface{}
	}{
		{FeatureNamesFile, &names},
		{FeatureImportanceFile, &importance},
		{PreprocessingFile, &pre},
		{EnsembleFile, &ensemble},
	}
	for _, f := range files {
		if err := readJSON(filepath.Join(dir, f.name), f.target); err != nil {
			return nil, err
		}
	}
	return New(names, importance, pre, ensemble)
}

func readJSON(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidArtifact, filepath.Base(path), err)
	}
	return nil
}

func (m *Model) FeatureNames() []string {
	out := make([]string, len(m.featureNames))
	copy(out, m.featureNames)
	return out
}

// MemberNames lists ensemble members in artifact order.
func (m *Model) MemberNames() []string {
	out := make([]string, len(m.ensemble.Members))
	for i := range m.ensemble.Members {
		out[i] = m.ensemble.Members[i].Name
	}
	return out
}

// Predict encodes, scales and evaluates values, which must hold every
// feature name. Categorical values are strings; the rest are numbers.
func (m *Model) Predict(values map[string]interface{}) (*Prediction, error) {
	x, err := m.preprocessing.Transform(m.featureNames, values)
	if err != nil {
		return nil, err
	}
	value, individual := m.ensemble.Predict(x)
	return &Prediction{Value: value, Individual: individual}, nil
}

// FeatureImportance averages each feature's importance over the models that
// report it, ordered by descending importance. Features no model reports are
// left out. Ties keep feature order.
func (m *Model) FeatureImportance() []FeatureWeight {
	models := make([]string, 0, len(m.importance))
	for name := range m.importance {
		models = append(models, name)
	}
	sort.Strings(models)

	out := make([]FeatureWeight, 0, len(m.featureNames))
	for _, feature := range m.featureNames {
		sum, n := 0.0, 0
		for _, model := range models {
			if v, ok := m.importance[model][feature]; ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			out = append(out, FeatureWeight{Feature: feature, Importance: sum / float64(n)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}
