package authlogout

import "medcost-service/internal/common/validation"

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"success", "message", "tokenRevoked", "logoutAt"},
		Properties: map[string]validation.Property{
			"success": {
				Type:        "boolean",
				Description: "Whether logout was successful",
			},
			"message": {
				Type:        "string",
				Description: "Result message",
			},
			"tokenRevoked": {
				Type:        "boolean",
				Description: "Whether token was revoked",
			},
			"logoutAt": {
				Type:        "string",
				Description: "Timestamp of logout",
				Format:      "date-time",
			},
		},
		AdditionalProperties: false,
	}
}
