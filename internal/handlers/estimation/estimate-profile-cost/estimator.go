// internal/handlers/estimation/estimate-profile-cost/estimator.go
package estimateprofilecost

import (
	"strings"

	"medcost-service/internal/common/currency"
)

const (
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"

	TreatmentMixed = "mixed"

	defaultBaseCost      = 25000.0
	defaultStayDays      = 3.0
	defaultTestsFactor   = 1.2
	unknownTreatment     = 1.0
	unknownMedication    = 1.0
	stayDailyFactor      = 0.15
	chronicFactor        = 1.5
	specialistFactor     = 1.2
	existingPerCondition = 0.1
	rangeLow             = 0.7
	rangeHigh            = 1.4
	basisPrefix          = "Similar treatment complexity: "
)

var (
	baseCosts = map[string]float64{
		SeverityMinor:    5000,
		SeverityModerate: 25000,
		SeveritySevere:   75000,
	}
	treatmentMultipliers = map[string]float64{
		"medication_only":      0.6,
		"lifestyle_management": 0.4,
		"procedure_based":      1.3,
		"surgery_required":     2.0,
		TreatmentMixed:         1.1,
	}
	testMultipliers = map[string]float64{
		"minimal":   1.0,
		"moderate":  1.2,
		"extensive": 1.5,
	}
	medicationMultipliers = map[string]float64{
		"none":       0.9,
		"short_term": 1.0,
		"long_term":  1.4,
		"lifelong":   1.8,
	}
)

// FallbackProfile is used when the profile text cannot be parsed.
func FallbackProfile() DiseaseProfile {
	stay := 2.0
	return DiseaseProfile{
		DiseaseCategory:    "Other",
		Chronic:            false,
		TreatmentType:      TreatmentMixed,
		Hospitalization:    false,
		AvgStayDays:        &stay,
		TestsRequired:      "moderate",
		MedicationDuration: "short_term",
		Severity:           SeverityModerate,
		SpecialistRequired: true,
	}
}

// Estimate maps profile and the number of pre-existing conditions to a cost
// range. Unknown enum values fall back silently. It is pure and safe for
// concurrent use.
func Estimate(profile DiseaseProfile, existingConditionCount int) CostRange {
	baseCost, ok := baseCosts[profile.Severity]
	if !ok {
		baseCost = defaultBaseCost
	}

	treatment := profile.TreatmentType
	if treatment == "" && !profile.blankTreatment {
		treatment = TreatmentMixed
	}

	// Multipliers apply in table order.
	multiplier := 1.0
	multiplier *= lookup(treatmentMultipliers, treatment, unknownTreatment)

	stay := stayDays(profile)
	if profile.Hospitalization {
		multiplier *= 1 + stay*stayDailyFactor
	}

	multiplier *= lookup(testMultipliers, profile.TestsRequired, defaultTestsFactor)
	multiplier *= lookup(medicationMultipliers, profile.MedicationDuration, unknownMedication)

	if profile.Chronic {
		multiplier *= chronicFactor
	}
	if profile.SpecialistRequired {
		multiplier *= specialistFactor
	}
	if existingConditionCount > 0 {
		multiplier *= 1 + float64(existingConditionCount)*existingPerCondition
	}

	estimated := baseCost * multiplier

	confidence := "medium"
	if profile.Severity == SeveritySevere {
		confidence = "low"
	}

	return CostRange{
		Min:        currency.Truncate(estimated * rangeLow),
		Max:        currency.Truncate(estimated * rangeHigh),
		Currency:   currency.Code,
		Confidence: confidence,
		Basis:      basis(profile, treatment, stay),
	}
}

func stayDays(profile DiseaseProfile) float64 {
	if profile.AvgStayDays == nil {
		return defaultStayDays
	}
	return *profile.AvgStayDays
}

// lookup treats an empty key as absent and returns fallback for unknown keys.
func lookup(table map[string]float64, key string, fallback float64) float64 {
	if v, ok := table[key]; ok {
		return v
	}
	return fallback
}

func basis(profile DiseaseProfile, treatment string, stay float64) string {
	parts := make([]string, 0, 3)
	if profile.Hospitalization {
		parts = append(parts, currency.FormatNumber(stay)+"-day hospitalization")
	}
	parts = append(parts, strings.ReplaceAll(treatment, "_", " ")+" treatment")
	if profile.Chronic {
		parts = append(parts, "chronic condition management")
	}
	return basisPrefix + strings.Join(parts, ", ")
}
