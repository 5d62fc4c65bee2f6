// internal/handlers/estimation/explain-cost/explainer.go
package explaincost

import (
	"fmt"
	"strings"

	"medcost-service/internal/common/currency"
)

const summaryNarratives = 3

type factorRule struct {
	label string
	tier  Tier
	share float64
}

// Explain derives the factors behind predictedCost for profile. Factors are
// evaluated in a fixed order: age, BMI, smoking, chronic conditions,
// hospitalizations, medications, activity. It is pure and safe for concurrent use.
func Explain(profile HealthProfile, predictedCost float64) CostExplanation {
	e := &explanation{cost: predictedCost, factors: []ImpactFactor{}}

	switch age := currency.FormatFloat(profile.Age); {
	case profile.Age > 60:
		e.add(fmt.Sprintf("Age %s years (Senior citizens typically have 30-40%% higher costs)", age),
			&factorRule{"Age Factor", TierHigh, 0.25})
	case profile.Age > 45:
		e.add(fmt.Sprintf("Age %s years (Middle-aged adults have moderately higher costs)", age),
			&factorRule{"Age Factor", TierMedium, 0.15})
	default:
		e.add(fmt.Sprintf("Age %s years (Younger individuals have lower baseline costs)", age), nil)
	}

	switch {
	case profile.BMI > 30:
		e.add(fmt.Sprintf("BMI %.1f (Obesity increases costs by 20-35%%)", profile.BMI),
			&factorRule{"BMI (Obesity)", TierHigh, 0.2})
	case profile.BMI > 25:
		e.add(fmt.Sprintf("BMI %.1f (Overweight adds 10-15%% to costs)", profile.BMI),
			&factorRule{"BMI (Overweight)", TierMedium, 0.1})
	case profile.BMI < 18.5:
		e.add(fmt.Sprintf("BMI %.1f (Underweight may require additional care)", profile.BMI), nil)
	}

	if profile.Smoker {
		e.add("Smoking status (Smokers face 40-50% higher medical costs)",
			&factorRule{"Smoking", TierVeryHigh, 0.35})
	}

	switch chronic := profile.ChronicCount(); {
	case chronic >= 2:
		e.add(fmt.Sprintf("%d chronic conditions (Multiple conditions significantly increase costs)", chronic),
			&factorRule{fmt.Sprintf("%d Chronic Conditions", chronic), TierVeryHigh, 0.4})
	case chronic == 1:
		name := singleConditionName(profile)
		e.add(fmt.Sprintf("%s (Adds 15-25%% to annual costs)", name),
			&factorRule{name, TierMedium, 0.18})
	}

	switch n := profile.HospitalAdmissions; {
	case n > 2:
		e.add(fmt.Sprintf("%d hospital admissions (Frequent hospitalizations)", n),
			&factorRule{"Hospitalizations", TierHigh, 0.25})
	case n > 0:
		e.add(fmt.Sprintf("%d hospital admission(s) this year", n), nil)
	}

	switch n := profile.MedicationCount; {
	case n > 5:
		e.add(fmt.Sprintf("%d daily medications (High medication costs)", n),
			&factorRule{"Medications", TierHigh, 0.15})
	case n > 2:
		e.add(fmt.Sprintf("%d daily medications (Moderate medication expenses)", n), nil)
	}

	switch profile.PhysicalActivityLevel {
	case ActivityLow:
		e.add("Low physical activity (Sedentary lifestyle increases health risks)",
			&factorRule{"Low Activity", TierMedium, 0.12})
	case ActivityHigh:
		e.add("High physical activity (Active lifestyle reduces costs by 10-15%)",
			&factorRule{"High Activity", TierPositive, -0.12})
	}

	pct := profile.InsuranceCoveragePct
	outOfPocket := predictedCost * (100 - pct) / 100
	outOfPocketINR := currency.FormatINR(outOfPocket)
	pctText := currency.FormatFloat(pct)

	e.add(fmt.Sprintf("%s insurance with %s%% coverage", profile.InsuranceType, pctText), nil)
	e.add("Out-of-pocket expense: "+outOfPocketINR, nil)

	return CostExplanation{
		TotalCostINR:    currency.FormatINR(predictedCost),
		Summary:         e.summary(),
		DetailedFactors: e.factors,
		InsuranceCoverage: InsuranceCoverage{
			Type:               profile.InsuranceType,
			CoveragePercentage: pctText + "%",
			CoveredAmount:      currency.FormatINR(predictedCost * pct / 100),
			OutOfPocket:        outOfPocketINR,
		},
	}
}

// singleConditionName picks the label when exactly one condition is set.
func singleConditionName(p HealthProfile) string {
	switch {
	case p.Diabetes:
		return "Diabetes"
	case p.Hypertension:
		return "Hypertension"
	case p.HeartDisease:
		return "Heart Disease"
	case p.Asthma:
		return "Asthma"
	}
	return ""
}

type explanation struct {
	cost       float64
	narratives []string
	factors    []ImpactFactor
}

func (e *explanation) add(narrative string, rule *factorRule) {
	e.narratives = append(e.narratives, narrative)
	if rule == nil {
		return
	}
	// Magnitude is truncated before the sign is applied.
	share := rule.share
	sign := int64(1)
	if share < 0 {
		share, sign = -share, -1
	}
	e.factors = append(e.factors, ImpactFactor{
		Label: rule.label,
		Tier:  rule.tier,
		Delta: sign * currency.Truncate(e.cost*share),
	})
}

// summary joins the leading narratives. The trailing ellipsis is unconditional.
func (e *explanation) summary() string {
	n := summaryNarratives
	if len(e.narratives) < n {
		n = len(e.narratives)
	}
	return strings.Join(e.narratives[:n], " | ") + "..."
}
