package profiledisease

import "medcost-service/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"disease_description": {
				Type:        []string{"string", "null"},
				Description: "Free-text disease or condition",
				MaxLength:   validation.IntPtr(2000),
			},
			"existing_conditions": {
				Type:        []string{"array", "null"},
				Description: "Pre-existing conditions",
				Items:       &validation.Property{Type: "string"},
			},
		},
		AdditionalProperties: true,
	}
}
