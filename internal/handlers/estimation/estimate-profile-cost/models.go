// internal/handlers/estimation/estimate-profile-cost/models.go
package estimateprofilecost

// DiseaseProfile is a coarse categorical description of a condition, usually
// parsed from LLM output. Every field is optional; empty strings and nil
// pointers take the documented defaults.
type DiseaseProfile struct {
	DiseaseCategory    string   `json:"disease_category"`
	Chronic            bool     `json:"chronic"`
	TreatmentType      string   `json:"treatment_type"`
	Hospitalization    bool     `json:"hospitalization"`
	AvgStayDays        *float64 `json:"avg_stay_days,omitempty"`
	TestsRequired      string   `json:"tests_required"`
	MedicationDuration string   `json:"medication_duration"`
	Severity           string   `json:"severity"`
	SpecialistRequired bool     `json:"specialist_required"`

	// blankTreatment marks a treatment_type that was present but empty. It
	// bypasses the mixed default and matches no multiplier.
	blankTreatment bool
}

// CostRange is the estimate for a DiseaseProfile.
type CostRange struct {
	Min        int64  `json:"min"`
	Max        int64  `json:"max"`
	Currency   string `json:"currency"`
	Confidence string `json:"confidence"`
	Basis      string `json:"basis"`
}
