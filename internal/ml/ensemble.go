package ml

import (
	"fmt"
	"sort"
)

// Member kinds.
const (
	KindForest   = "forest"
	KindBoosting = "boosting"
	KindAdaBoost = "adaboost"
)

// Member is one estimator of the voting ensemble.
type Member struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`
	Trees []Tree `json:"trees"`

	// boosting
	Init         float64 `json:"init,omitempty"`
	LearningRate float64 `json:"learning_rate,omitempty"`

	// adaboost
	EstimatorWeights []float64 `json:"estimator_weights,omitempty"`
}

func (m *Member) validate(nFeatures int) error {
	if m.Name == "" {
		return fmt.Errorf("member without name")
	}
	if len(m.Trees) == 0 {
		return fmt.Errorf("member %q has no trees", m.Name)
	}
	switch m.Kind {
	case KindForest:
	case KindBoosting:
		if m.LearningRate <= 0 {
			return fmt.Errorf("member %q: learning_rate must be positive", m.Name)
		}
	case KindAdaBoost:
		if len(m.EstimatorWeights) != len(m.Trees) {
			return fmt.Errorf("member %q: %d estimator weights for %d trees", m.Name, len(m.EstimatorWeights), len(m.Trees))
		}
	default:
		return fmt.Errorf("member %q: unknown kind %q", m.Name, m.Kind)
	}
	for i := range m.Trees {
		if err := m.Trees[i].validate(nFeatures); err != nil {
			return fmt.Errorf("member %q tree %d: %w", m.Name, i, err)
		}
	}
	return nil
}

// Predict evaluates the member on an encoded, scaled feature vector.
func (m *Member) Predict(x []float64) float64 {
	switch m.Kind {
	case KindBoosting:
		sum := 0.0
		for i := range m.Trees {
			sum += m.Trees[i].Predict(x)
		}
		return m.Init + m.LearningRate*sum
	case KindAdaBoost:
		return m.weightedMedian(x)
	default:
		sum := 0.0
		for i := range m.Trees {
			sum += m.Trees[i].Predict(x)
		}
		return sum / float64(len(m.Trees))
	}
}

// weightedMedian returns the prediction of the first tree, in prediction
// order, whose cumulative weight reaches half the total.
func (m *Member) weightedMedian(x []float64) float64 {
	type vote struct {
		prediction float64
		weight     float64
	}
	votes := make([]vote, len(m.Trees))
	total := 0.0
	for i := range m.Trees {
		votes[i] = vote{m.Trees[i].Predict(x), m.EstimatorWeights[i]}
		total += m.EstimatorWeights[i]
	}
	sort.SliceStable(votes, func(i, j int) bool { return votes[i].prediction < votes[j].prediction })

	cumulative := 0.0
	for _, v := range votes {
		cumulative += v.weight
		if cumulative >= 0.5*total {
			return v.prediction
		}
	}
	return votes[len(votes)-1].prediction
}

// Ensemble averages its members with equal weight.
type Ensemble struct {
	Members []Member `json:"members"`
}

func (e *Ensemble) validate(nFeatures int) error {
	if len(e.Members) == 0 {
		return fmt.Errorf("ensemble has no members")
	}
	seen := make(map[string]bool, len(e.Members))
	for i := range e.Members {
		if err := e.Members[i].validate(nFeatures); err != nil {
			return err
		}
		if seen[e.Members[i].Name] {
			return fmt.Errorf("duplicate member %q", e.Members[i].Name)
		}
		seen[e.Members[i].Name] = true
	}
	return nil
}

// Predict returns the ensemble mean and each member's own prediction.
func (e *Ensemble) Predict(x []float64) (float64, map[string]float64) {
	individual := make(map[string]float64, len(e.Members))
	sum := 0.0
	for i := range e.Members {
		p := e.Members[i].Predict(x)
		individual[e.Members[i].Name] = p
		sum += p
	}
	return sum / float64(len(e.Members)), individual
}
