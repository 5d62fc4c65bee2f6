package predictcost

import "medcost-service/internal/common/validation"

var (
	numericTypes = []string{"number", "string", "boolean", "null"}
	labelTypes   = []string{"string", "number", "boolean", "null"}
)

// GetInputSchema accepts the lenient encodings ParseFeatures understands and
// rejects objects and arrays up front.
func GetInputSchema() validation.JSONSchema {
	props := map[string]validation.Property{
		"user_email": {
			Type:        []string{"string", "null"},
			Description: "Save the prediction to this user's history",
			MaxLength:   validation.IntPtr(255),
		},
	}
	for _, name := range []string{
		"age", "bmi", "diabetes", "hypertension", "heart_disease", "asthma",
		"daily_steps", "sleep_hours", "stress_level", "doctor_visits_per_year",
		"hospital_admissions", "medication_count", "insurance_coverage_pct", "previous_year_cost",
	} {
		props[name] = validation.Property{Type: numericTypes}
	}
	for _, name := range []string{"gender", "smoker", "physical_activity_level", "insurance_type", "city_type"} {
		props[name] = validation.Property{Type: labelTypes}
	}

	return validation.JSONSchema{
		Type:                 "object",
		Properties:           props,
		AdditionalProperties: true,
	}
}
