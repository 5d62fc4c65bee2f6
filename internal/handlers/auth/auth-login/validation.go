package authlogin

import "medcost-service/internal/common/validation"

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
		},
		AdditionalProperties: true,
	}
}
