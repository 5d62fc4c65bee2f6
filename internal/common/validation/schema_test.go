package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = JSONSchema{
	Type: "object",
	Properties: map[string]Property{
		"email":               {Type: "string", MaxLength: IntPtr(320)},
		"age":                 {Type: []string{"number", "string", "null"}},
		"existing_conditions": {Type: "array", Items: &Property{Type: "string"}},
		"severity":            {Type: "string", Enum: []string{"minor", "moderate", "severe"}},
	},
	Required:             []string{"email"},
	AdditionalProperties: true,
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		document  map[string]interface{}
		valid     bool
		badFields []string
	}{
		{
			name:     "valid document",
			document: map[string]interface{}{"email": "a@b.co", "age": 40.0, "existing_conditions": []interface{}{"asthma"}},
			valid:    true,
		},
		{
			name:     "age may be a numeric string",
			document: map[string]interface{}{"email": "a@b.co", "age": "40"},
			valid:    true,
		},
		{
			name:      "missing required",
			document:  map[string]interface{}{"age": 40.0},
			badFields: []string{"email"},
		},
		{
			name:      "wrong array item type",
			document:  map[string]interface{}{"email": "a@b.co", "existing_conditions": []interface{}{1.0}},
			badFields: []string{"existing_conditions.0"},
		},
		{
			name:      "enum violation",
			document:  map[string]interface{}{"email": "a@b.co", "severity": "catastrophic"},
			badFields: []string{"severity"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(tt.document, testSchema)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid, res.Summary())
			for _, f := range tt.badFields {
				assert.True(t, res.HasErrors(f), "expected error on %s, got %v", f, res.Errors)
			}
		})
	}
}

func TestValidateJSON_Malformed(t *testing.T) {
	_, err := ValidateJSON([]byte(`{"email":`), testSchema)
	assert.Error(t, err)
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("priya.sharma@example.in"))
	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("a@b"))
}
