package estimateprofilecost

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// objectPattern finds the outermost-looking {...} span, newlines included.
var objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// ParseProfile extracts a DiseaseProfile from free-form model output. It
// returns the decoded JSON object alongside the typed profile. ok is false
// when no JSON object could be decoded; callers then use FallbackProfile.
func ParseProfile(text string) (profile DiseaseProfile, raw map[string]interface{}, ok bool) {
	match := objectPattern.FindString(text)
	if match == "" {
		return DiseaseProfile{}, nil, false
	}
	if err := json.Unmarshal([]byte(match), &raw); err != nil {
		return DiseaseProfile{}, nil, false
	}
	return ProfileFromMap(raw), raw, true
}

// ProfileFromMap converts a loosely typed object into a DiseaseProfile.
// Mistyped fields are treated as absent.
func ProfileFromMap(m map[string]interface{}) DiseaseProfile {
	p := DiseaseProfile{
		DiseaseCategory:    text(m["disease_category"]),
		Chronic:            truthy(m["chronic"]),
		TreatmentType:      text(m["treatment_type"]),
		Hospitalization:    truthy(m["hospitalization"]),
		TestsRequired:      text(m["tests_required"]),
		MedicationDuration: text(m["medication_duration"]),
		Severity:           text(m["severity"]),
		SpecialistRequired: truthy(m["specialist_required"]),
	}
	if v, ok := m["treatment_type"].(string); ok && strings.TrimSpace(v) == "" {
		p.blankTreatment = true
	}
	if days, ok := number(m["avg_stay_days"]); ok {
		p.AvgStayDays = &days
	}
	return p
}

func text(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "", "false", "no", "0", "none", "null":
			return false
		}
		return true
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	}
	return false
}

func number(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}
