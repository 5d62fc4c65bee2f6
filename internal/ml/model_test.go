package ml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "testdata/artifacts"

func defaultValues() map[string]interface{} {
	return map[string]interface{}{
		"age": 30.0, "gender": "Male", "bmi": 25.0, "smoker": "No",
		"diabetes": 0, "hypertension": 0, "heart_disease": 0, "asthma": 0,
		"physical_activity_level": "Medium", "daily_steps": 5000.0, "sleep_hours": 7.0,
		"stress_level": 5.0, "doctor_visits_per_year": 2, "hospital_admissions": 0,
		"medication_count": 0, "insurance_type": "Government", "insurance_coverage_pct": 50.0,
		"city_type": "Urban", "previous_year_cost": 5000.0,
	}
}

func TestLoad_Fixture(t *testing.T) {
	m, err := Load(fixtureDir)
	require.NoError(t, err)

	assert.Len(t, m.FeatureNames(), 19)
	assert.Equal(t, []string{"Random Forest", "Gradient Boosting", "AdaBoost"}, m.MemberNames())
}

func TestModel_Predict(t *testing.T) {
	m, err := Load(fixtureDir)
	require.NoError(t, err)

	tests := []struct {
		name       string
		mutate     func(map[string]interface{})
		want       float64
		individual map[string]float64
	}{
		{
			name:   "defaults",
			mutate: func(map[string]interface{}) {},
			want:   36500.0 / 3,
			individual: map[string]float64{
				"Random Forest": 11000, "Gradient Boosting": 14500, "AdaBoost": 11000,
			},
		},
		{
			name: "older smoker",
			mutate: func(v map[string]interface{}) {
				v["age"] = 60.0
				v["smoker"] = "Yes"
			},
			want: 21000,
			individual: map[string]float64{
				"Random Forest": 35000, "Gradient Boosting": 17000, "AdaBoost": 11000,
			},
		},
		{
			name: "unknown smoker label encodes as first class",
			mutate: func(v map[string]interface{}) {
				v["smoker"] = "Sometimes"
			},
			want: 36500.0 / 3,
		},
		{
			name: "split threshold is inclusive",
			mutate: func(v map[string]interface{}) {
				v["age"] = 50.0
			},
			want: 36500.0 / 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := defaultValues()
			tt.mutate(values)

			got, err := m.Predict(values)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got.Value, 1e-6)
			for name, want := range tt.individual {
				assert.InDelta(t, want, got.Individual[name], 1e-6, name)
			}
		})
	}
}

func TestModel_PredictMissingFeature(t *testing.T) {
	m, err := Load(fixtureDir)
	require.NoError(t, err)

	values := defaultValues()
	delete(values, "bmi")
	_, err = m.Predict(values)
	assert.True(t, errors.Is(err, ErrMissingFeature))

	values = defaultValues()
	values["bmi"] = "heavy"
	_, err = m.Predict(values)
	assert.Error(t, err)
}

func TestModel_FeatureImportance(t *testing.T) {
	m, err := Load(fixtureDir)
	require.NoError(t, err)

	assert.Equal(t, []FeatureWeight{
		{Feature: "smoker", Importance: 0.75},
		{Feature: "age", Importance: 0.25},
		{Feature: "bmi", Importance: 0},
	}, m.FeatureImportance())
}

func TestAdaBoost_WeightedMedian(t *testing.T) {
	stump := func(v float64) Tree {
		return Tree{ChildrenLeft: []int{-1}, ChildrenRight: []int{-1}, Feature: []int{-2}, Threshold: []float64{-2}, Value: []float64{v}}
	}
	member := Member{
		Name:             "AdaBoost",
		Kind:             KindAdaBoost,
		Trees:            []Tree{stump(5), stump(1), stump(3)},
		EstimatorWeights: []float64{3, 1, 1},
	}
	// sorted: 1(w1) 3(w1) 5(w3); half of 5 is reached at 5
	assert.Equal(t, 5.0, member.Predict(nil))

	member.EstimatorWeights = []float64{1, 1, 1}
	assert.Equal(t, 3.0, member.Predict(nil))
}

func TestNew_RejectsInvalidArtifacts(t *testing.T) {
	names := []string{"a", "b"}
	scaler := Scaler{Mean: []float64{0, 0}, Scale: []float64{1, 1}}
	good := Tree{
		ChildrenLeft: []int{1, -1, -1}, ChildrenRight: []int{2, -1, -1},
		Feature: []int{1, -2, -2}, Threshold: []float64{0, -2, -2}, Value: []float64{0, 1, 2},
	}

	tests := []struct {
		name     string
		names    []string
		scaler   Scaler
		ensemble Ensemble
	}{
		{"no features", nil, scaler, Ensemble{Members: []Member{{Name: "f", Kind: KindForest, Trees: []Tree{good}}}}},
		{"scaler length", names, Scaler{Mean: []float64{0}, Scale: []float64{1}}, Ensemble{Members: []Member{{Name: "f", Kind: KindForest, Trees: []Tree{good}}}}},
		{"no members", names, scaler, Ensemble{}},
		{"unknown kind", names, scaler, Ensemble{Members: []Member{{Name: "f", Kind: "svm", Trees: []Tree{good}}}}},
		{"zero learning rate", names, scaler, Ensemble{Members: []Member{{Name: "g", Kind: KindBoosting, Trees: []Tree{good}}}}},
		{"weights mismatch", names, scaler, Ensemble{Members: []Member{{Name: "a", Kind: KindAdaBoost, Trees: []Tree{good}}}}},
		{"duplicate names", names, scaler, Ensemble{Members: []Member{
			{Name: "f", Kind: KindForest, Trees: []Tree{good}},
			{Name: "f", Kind: KindForest, Trees: []Tree{good}},
		}}},
		{"feature out of range", names, scaler, Ensemble{Members: []Member{{Name: "f", Kind: KindForest, Trees: []Tree{{
			ChildrenLeft: []int{1, -1, -1}, ChildrenRight: []int{2, -1, -1},
			Feature: []int{7, -2, -2}, Threshold: []float64{0, -2, -2}, Value: []float64{0, 1, 2},
		}}}}}},
		{"cyclic child", names, scaler, Ensemble{Members: []Member{{Name: "f", Kind: KindForest, Trees: []Tree{{
			ChildrenLeft: []int{0, -1}, ChildrenRight: []int{1, -1},
			Feature: []int{0, -2}, Threshold: []float64{0, -2}, Value: []float64{0, 1},
		}}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.names, nil, Preprocessing{Scaler: tt.scaler}, tt.ensemble)
			assert.True(t, errors.Is(err, ErrInvalidArtifact), "got %v", err)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)

	dir := t.TempDir()
	for _, name := range []string{FeatureNamesFile, FeatureImportanceFile, PreprocessingFile, EnsembleFile} {
		data, err := os.ReadFile(filepath.Join(fixtureDir, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, EnsembleFile), []byte(`{"members":`), 0o644))

	_, err = Load(dir)
	assert.True(t, errors.Is(err, ErrInvalidArtifact))
}
