package predictcost

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"medcost-service/internal/common/errors"
	explaincost "medcost-service/internal/handlers/estimation/explain-cost"
)

// Features is a fully defaulted prediction request in model column terms.
type Features struct {
	Age                   float64
	Gender                string
	BMI                   float64
	Smoker                string
	Diabetes              int
	Hypertension          int
	HeartDisease          int
	Asthma                int
	PhysicalActivityLevel string
	DailySteps            float64
	SleepHours            float64
	StressLevel           float64
	DoctorVisitsPerYear   int
	HospitalAdmissions    int
	MedicationCount       int
	InsuranceType         string
	InsuranceCoveragePct  float64
	CityType              string
	PreviousYearCost      float64
}

func DefaultFeatures() Features {
	return Features{
		Age:                   30,
		Gender:                "Male",
		BMI:                   25,
		Smoker:                "No",
		PhysicalActivityLevel: explaincost.ActivityMedium,
		DailySteps:            5000,
		SleepHours:            7,
		StressLevel:           5,
		DoctorVisitsPerYear:   2,
		InsuranceType:         "Government",
		InsuranceCoveragePct:  50,
		CityType:              "Urban",
		PreviousYearCost:      5000,
	}
}

// ParseFeatures overlays body onto DefaultFeatures. Absent and null fields keep
// their default. Numbers may arrive as JSON numbers, numeric strings or
// booleans; anything else is a validation error.
func ParseFeatures(body map[string]interface{}) (Features, error) {
	f := DefaultFeatures()
	p := fieldParser{body: body}

	f.Age = p.number("age", f.Age)
	f.Gender = p.label("gender", f.Gender)
	f.BMI = p.number("bmi", f.BMI)
	f.Smoker = p.yesNo("smoker", f.Smoker)
	f.Diabetes = p.integer("diabetes", f.Diabetes)
	f.Hypertension = p.integer("hypertension", f.Hypertension)
	f.HeartDisease = p.integer("heart_disease", f.HeartDisease)
	f.Asthma = p.integer("asthma", f.Asthma)
	f.PhysicalActivityLevel = p.label("physical_activity_level", f.PhysicalActivityLevel)
	f.DailySteps = p.number("daily_steps", f.DailySteps)
	f.SleepHours = p.number("sleep_hours", f.SleepHours)
	f.StressLevel = p.number("stress_level", f.StressLevel)
	f.DoctorVisitsPerYear = p.integer("doctor_visits_per_year", f.DoctorVisitsPerYear)
	f.HospitalAdmissions = p.integer("hospital_admissions", f.HospitalAdmissions)
	f.MedicationCount = p.integer("medication_count", f.MedicationCount)
	f.InsuranceType = p.label("insurance_type", f.InsuranceType)
	f.InsuranceCoveragePct = p.number("insurance_coverage_pct", f.InsuranceCoveragePct)
	f.CityType = p.label("city_type", f.CityType)
	f.PreviousYearCost = p.number("previous_year_cost", f.PreviousYearCost)

	if p.err != nil {
		return Features{}, p.err
	}
	return f, nil
}

// Values keys each feature by its model column name.
func (f Features) Values() map[string]interface{} {
	return map[string]interface{}{
		"age":                     f.Age,
		"gender":                  f.Gender,
		"bmi":                     f.BMI,
		"smoker":                  f.Smoker,
		"diabetes":                f.Diabetes,
		"hypertension":            f.Hypertension,
		"heart_disease":           f.HeartDisease,
		"asthma":                  f.Asthma,
		"physical_activity_level": f.PhysicalActivityLevel,
		"daily_steps":             f.DailySteps,
		"sleep_hours":             f.SleepHours,
		"stress_level":            f.StressLevel,
		"doctor_visits_per_year":  f.DoctorVisitsPerYear,
		"hospital_admissions":     f.HospitalAdmissions,
		"medication_count":        f.MedicationCount,
		"insurance_type":          f.InsuranceType,
		"insurance_coverage_pct":  f.InsuranceCoveragePct,
		"city_type":               f.CityType,
		"previous_year_cost":      f.PreviousYearCost,
	}
}

func (f Features) HealthProfile() explaincost.HealthProfile {
	return explaincost.HealthProfile{
		Age:                   f.Age,
		BMI:                   f.BMI,
		Smoker:                f.Smoker == "Yes",
		Diabetes:              f.Diabetes != 0,
		Hypertension:          f.Hypertension != 0,
		HeartDisease:          f.HeartDisease != 0,
		Asthma:                f.Asthma != 0,
		HospitalAdmissions:    f.HospitalAdmissions,
		MedicationCount:       f.MedicationCount,
		PhysicalActivityLevel: f.PhysicalActivityLevel,
		InsuranceType:         f.InsuranceType,
		InsuranceCoveragePct:  f.InsuranceCoveragePct,
	}
}

func (f Features) HasChronicConditions() bool {
	return f.Diabetes != 0 || f.Hypertension != 0 || f.HeartDisease != 0 || f.Asthma != 0
}

// fieldParser records the first coercion failure and keeps defaults after it.
type fieldParser struct {
	body map[string]interface{}
	err  error
}

func (p *fieldParser) lookup(key string) (interface{}, bool) {
	if p.err != nil {
		return nil, false
	}
	v, ok := p.body[key]
	return v, ok && v != nil
}

func (p *fieldParser) fail(key string, v interface{}, cause string) {
	p.err = errors.NewValidationError(
		fmt.Sprintf("Invalid value for %s", key),
		fmt.Sprintf("%v: %s", v, cause),
	)
}

func (p *fieldParser) number(key string, def float64) float64 {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case bool:
		if t {
			n = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			p.fail(key, v, "not a number")
			return def
		}
		n = parsed
	default:
		p.fail(key, v, fmt.Sprintf("unsupported type %T", v))
		return def
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		p.fail(key, v, "not a finite number")
		return def
	}
	return n
}

// integer truncates toward zero.
func (p *fieldParser) integer(key string, def int) int {
	if _, ok := p.lookup(key); !ok {
		return def
	}
	return int(p.number(key, float64(def)))
}

func (p *fieldParser) label(key, def string) string {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// yesNo accepts the dataset's "Yes"/"No" labels and JSON booleans.
func (p *fieldParser) yesNo(key, def string) string {
	v, ok := p.lookup(key)
	if !ok {
		return def
	}
	if b, ok := v.(bool); ok {
		if b {
			return "Yes"
		}
		return "No"
	}
	return p.label(key, def)
}
