package chatassistant

import "medcost-service/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"message": {
				Type:        "string",
				Description: "User message or option key",
				MaxLength:   validation.IntPtr(4000),
			},
			"type": {
				Type:        "string",
				Description: "Message kind",
				Enum:        []string{TypeText, TypeOption},
			},
		},
		AdditionalProperties: true,
	}
}
