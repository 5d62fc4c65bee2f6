// Package dataset loads the training CSV and computes the descriptive
// statistics and chart series served by the analytics endpoints.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrMissingColumn = errors.New("missing column")

// Record is one row of the medical cost dataset. Only the columns the
// analytics read are kept.
type Record struct {
	Age                 float64
	Gender              string
	Smoker              string
	Diabetes            float64
	Hypertension        float64
	HeartDisease        float64
	Asthma              float64
	DoctorVisitsPerYear float64
	InsuranceType       string
	CityType            string
	AnnualMedicalCost   float64
}

// Dataset is an immutable, in-memory copy of the CSV.
type Dataset struct {
	records []Record
}

var requiredColumns = []string{
	"age", "gender", "smoker", "diabetes", "hypertension", "heart_disease", "asthma",
	"doctor_visits_per_year", "insurance_type", "city_type", "annual_medical_cost",
}

// LoadFile reads a dataset from a CSV file with a header row.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	ds := &Dataset{}
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rec, err := parseRecord(row, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ds.records = append(ds.records, rec)
	}
	return ds, nil
}

// New wraps already parsed records.
func New(records []Record) *Dataset {
	out := make([]Record, len(records))
	copy(out, records)
	return &Dataset{records: out}
}

func parseRecord(row []string, index map[string]int) (Record, error) {
	var (
		rec  Record
		perr error
	)
	num := func(col string) float64 {
		if perr != nil {
			return 0
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[index[col]]), 64)
		if err != nil {
			perr = fmt.Errorf("column %s: %w", col, err)
		}
		return v
	}
	str := func(col string) string { return strings.TrimSpace(row[index[col]]) }

	rec.Age = num("age")
	rec.Gender = str("gender")
	rec.Smoker = str("smoker")
	rec.Diabetes = num("diabetes")
	rec.Hypertension = num("hypertension")
	rec.HeartDisease = num("heart_disease")
	rec.Asthma = num("asthma")
	rec.DoctorVisitsPerYear = num("doctor_visits_per_year")
	rec.InsuranceType = str("insurance_type")
	rec.CityType = str("city_type")
	rec.AnnualMedicalCost = num("annual_medical_cost")
	return rec, perr
}

func (d *Dataset) Len() int {
	return len(d.records)
}
