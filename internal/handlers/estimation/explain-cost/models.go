// internal/handlers/estimation/explain-cost/models.go
package explaincost

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"medcost-service/internal/common/currency"
)

// Tier is the qualitative size of a factor's effect on cost.
type Tier string

const (
	TierPositive Tier = "Positive"
	TierMedium   Tier = "Medium"
	TierHigh     Tier = "High"
	TierVeryHigh Tier = "Very High"
)

// Activity levels as produced by the dataset encoders. Matching is case sensitive.
const (
	ActivityLow    = "Low"
	ActivityMedium = "Medium"
	ActivityHigh   = "High"
)

// HealthProfile is a fully defaulted patient profile.
//
// InsuranceCoveragePct is expected in [0, 100]. Values outside that range are
// not rejected; they produce a negative covered or out-of-pocket amount.
type HealthProfile struct {
	Age                   float64
	BMI                   float64
	Smoker                bool
	Diabetes              bool
	Hypertension          bool
	HeartDisease          bool
	Asthma                bool
	HospitalAdmissions    int
	MedicationCount       int
	PhysicalActivityLevel string
	InsuranceType         string
	InsuranceCoveragePct  float64
}

// ChronicCount is the number of chronic condition flags set.
func (p HealthProfile) ChronicCount() int {
	n := 0
	for _, set := range []bool{p.Diabetes, p.Hypertension, p.HeartDisease, p.Asthma} {
		if set {
			n++
		}
	}
	return n
}

// ImpactFactor is one line of the cost breakdown. Delta is in whole rupees and
// is negative for factors that lower cost.
//
// On the wire a factor is the tuple [label, tier, "+₹N"].
type ImpactFactor struct {
	Label string
	Tier  Tier
	Delta int64
}

// Amount renders the signed delta, e.g. "+₹25,000".
func (f ImpactFactor) Amount() string {
	return currency.FormatDelta(f.Delta)
}

func (f ImpactFactor) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{f.Label, string(f.Tier), f.Amount()})
}

func (f *ImpactFactor) UnmarshalJSON(data []byte) error {
	var tuple [3]string
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("impact factor: %w", err)
	}
	delta, err := parseDelta(tuple[2])
	if err != nil {
		return err
	}
	f.Label, f.Tier, f.Delta = tuple[0], Tier(tuple[1]), delta
	return nil
}

func parseDelta(amount string) (int64, error) {
	sign := int64(1)
	switch {
	case strings.HasPrefix(amount, "-"):
		sign = -1
		amount = amount[1:]
	case strings.HasPrefix(amount, "+"):
		amount = amount[1:]
	}
	amount = strings.TrimPrefix(amount, currency.Symbol)
	n, err := strconv.ParseInt(strings.ReplaceAll(amount, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("impact factor amount %q: %w", amount, err)
	}
	return sign * n, nil
}

type InsuranceCoverage struct {
	Type               string `json:"type"`
	CoveragePercentage string `json:"coverage_percentage"`
	CoveredAmount      string `json:"covered_amount"`
	OutOfPocket        string `json:"out_of_pocket"`
}

// CostExplanation is the human-readable breakdown attached to a prediction.
type CostExplanation struct {
	TotalCostINR      string            `json:"total_cost_inr"`
	Summary           string            `json:"summary"`
	DetailedFactors   []ImpactFactor    `json:"detailed_factors"`
	InsuranceCoverage InsuranceCoverage `json:"insurance_coverage"`
}
