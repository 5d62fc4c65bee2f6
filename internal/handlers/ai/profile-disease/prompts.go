package profiledisease

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a medical knowledge mapper. Your ONLY role is to classify and profile diseases based on treatment characteristics.

You must output ONLY a valid JSON object with these exact fields:
{
  "disease_category": "string (Cardiac, Renal, Respiratory, Digestive, Neurological, Musculoskeletal, Dermatological, Endocrine, Other)",
  "chronic": boolean,
  "treatment_type": "string (medication_only, procedure_based, surgery_required, lifestyle_management, mixed)",
  "hospitalization": boolean,
  "avg_stay_days": number (0-30),
  "tests_required": "string (minimal, moderate, extensive)",
  "medication_duration": "string (none, short_term, long_term, lifelong)",
  "severity": "string (minor, moderate, severe)",
  "specialist_required": boolean
}

DO NOT provide cost estimates. DO NOT provide medical advice. ONLY provide structured disease characteristics.`

func userPrompt(description string, conditions []string) string {
	existing := "None"
	if len(conditions) > 0 {
		existing = strings.Join(conditions, ", ")
	}
	return fmt.Sprintf("Disease/Condition: %s\n\nExisting Health Conditions: %s\n\nProvide disease profiling JSON:", description, existing)
}
