package authsignup

import "medcost-service/internal/common/validation"

// GetInputSchema checks field types only. Presence and password length are
// enforced by the service so clients get the established messages.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"email": {
				Type:        "string",
				Description: "Account e-mail address",
				MaxLength:   validation.IntPtr(255),
			},
			"password": {
				Type:        "string",
				Description: "Plain text password",
				MaxLength:   validation.IntPtr(72),
			},
			"name": {
				Type:        "string",
				Description: "Display name",
				MaxLength:   validation.IntPtr(255),
			},
			"age": {
				Type:        []string{"integer", "null"},
				Description: "Age in years",
				Minimum:     validation.FloatPtr(0),
				Maximum:     validation.FloatPtr(150),
			},
			"gender": {
				Type:        []string{"string", "null"},
				Description: "Self-reported gender",
				MaxLength:   validation.IntPtr(50),
			},
		},
		AdditionalProperties: true,
	}
}
