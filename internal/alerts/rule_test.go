package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRule(t *testing.T) {
	rule, err := NewRule(DefaultExpression)
	require.NoError(t, err)

	tests := []struct {
		name  string
		facts Facts
		want  bool
	}{
		{"cheap healthy", Facts{Prediction: 20000}, false},
		{"expensive", Facts{Prediction: 200000.01}, true},
		{"boundary is exclusive", Facts{Prediction: 200000}, false},
		{"smoker with two conditions", Facts{Prediction: 50000, Smoker: true, ChronicCount: 2}, true},
		{"smoker with one condition", Facts{Prediction: 50000, Smoker: true, ChronicCount: 1}, false},
		{"non-smoker with conditions", Facts{Prediction: 50000, ChronicCount: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rule.Matches(tt.facts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCustomRule(t *testing.T) {
	rule, err := NewRule(`insurance_type == "None" && age > 60.0 && coverage_pct < 10.0`)
	require.NoError(t, err)
	assert.Equal(t, `insurance_type == "None" && age > 60.0 && coverage_pct < 10.0`, rule.Expression())

	got, err := rule.Matches(Facts{InsuranceType: "None", Age: 65})
	require.NoError(t, err)
	assert.True(t, got)
}

func TestNewRule_Rejects(t *testing.T) {
	tests := map[string]string{
		"syntax error":     `prediction >`,
		"unknown variable": `income > 10.0`,
		"non-bool result":  `prediction * 2.0`,
	}
	for name, expr := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NewRule(expr)
			assert.Error(t, err)
		})
	}
}
