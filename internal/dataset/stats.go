package dataset

import (
	"fmt"
	"math"
	"sort"
)

type CostStatistics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Std    float64 `json:"std"`
}

type AgeStatistics struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Statistics is the dataset summary served by GET /api/statistics.
type Statistics struct {
	TotalRecords             int                       `json:"total_records"`
	CostStatistics           CostStatistics            `json:"cost_statistics"`
	AgeStatistics            AgeStatistics             `json:"age_statistics"`
	CategoricalDistributions map[string]map[string]int `json:"categorical_distributions"`
}

// Statistics summarizes cost and age and counts the categorical columns.
// Empty datasets report zeros. Std is the sample standard deviation.
func (d *Dataset) Statistics() Statistics {
	costs := make([]float64, len(d.records))
	ages := make([]float64, len(d.records))
	for i, r := range d.records {
		costs[i] = r.AnnualMedicalCost
		ages[i] = r.Age
	}
	costMin, costMax := minMax(costs)
	ageMin, ageMax := minMax(ages)

	return Statistics{
		TotalRecords: len(d.records),
		CostStatistics: CostStatistics{
			Mean:   mean(costs),
			Median: median(costs),
			Min:    costMin,
			Max:    costMax,
			Std:    sampleStd(costs),
		},
		AgeStatistics: AgeStatistics{Mean: mean(ages), Min: ageMin, Max: ageMax},
		CategoricalDistributions: map[string]map[string]int{
			"gender":         d.valueCounts(func(r Record) string { return r.Gender }),
			"smoker":         d.valueCounts(func(r Record) string { return r.Smoker }),
			"insurance_type": d.valueCounts(func(r Record) string { return r.InsuranceType }),
			"city_type":      d.valueCounts(func(r Record) string { return r.CityType }),
		},
	}
}

func (d *Dataset) valueCounts(key func(Record) string) map[string]int {
	counts := map[string]int{}
	for _, r := range d.records {
		if k := key(r); k != "" {
			counts[k]++
		}
	}
	return counts
}

// Series is a labelled chart series.
type Series struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type CountSeries struct {
	Labels []string `json:"labels"`
	Data   []int    `json:"data"`
}

type ScatterSeries struct {
	Labels []string  `json:"labels"`
	XData  []float64 `json:"x_data"`
	YData  []float64 `json:"y_data"`
	Sizes  []float64 `json:"sizes"`
}

// Visualizations holds the six dashboard chart series.
type Visualizations struct {
	LineChart    Series        `json:"line_chart"`
	BarChart     Series        `json:"bar_chart"`
	PieChart     CountSeries   `json:"pie_chart"`
	AreaChart    Series        `json:"area_chart"`
	ScatterChart ScatterSeries `json:"scatter_chart"`
	PolarChart   Series        `json:"polar_chart"`
}

// Age bins are right-closed: (0,20], (20,30] ... (80,100].
var (
	ageEdges  = []float64{0, 20, 30, 40, 50, 60, 70, 80, 100}
	ageLabels = []string{"<20", "20-30", "30-40", "40-50", "50-60", "60-70", "70-80", "80+"}
)

var polarGroups = []struct {
	gender, smoker, label string
}{
	{"Male", "Yes", "Male Smokers"},
	{"Male", "No", "Male Non-Smokers"},
	{"Female", "Yes", "Female Smokers"},
	{"Female", "No", "Female Non-Smokers"},
}

func (d *Dataset) Visualizations() Visualizations {
	return Visualizations{
		LineChart:    d.costByAgeGroup(),
		BarChart:     d.meanCostBy(func(r Record) string { return r.InsuranceType }, false),
		PieChart:     d.conditionCounts(),
		AreaChart:    d.meanCostBy(func(r Record) string { return r.CityType }, true),
		ScatterChart: d.costByDoctorVisits(),
		PolarChart:   d.costByGenderAndSmoking(),
	}
}

func ageBin(age float64) int {
	for i := 1; i < len(ageEdges); i++ {
		if age > ageEdges[i-1] && age <= ageEdges[i] {
			return i - 1
		}
	}
	return -1
}

func (d *Dataset) costByAgeGroup() Series {
	sums := make([]float64, len(ageLabels))
	counts := make([]int, len(ageLabels))
	for _, r := range d.records {
		if b := ageBin(r.Age); b >= 0 {
			sums[b] += r.AnnualMedicalCost
			counts[b]++
		}
	}
	data := make([]float64, len(ageLabels))
	for i := range data {
		if counts[i] > 0 {
			data[i] = sums[i] / float64(counts[i])
		}
	}
	return Series{Labels: append([]string(nil), ageLabels...), Data: data}
}

type group struct {
	key   string
	sum   float64
	count int
}

func (g group) mean() float64 { return g.sum / float64(g.count) }

// meanCostBy groups by key, ordered by key or, when byValue is set, by
// ascending mean cost.
func (d *Dataset) meanCostBy(key func(Record) string, byValue bool) Series {
	index := map[string]int{}
	var groups []group
	for _, r := range d.records {
		k := key(r)
		if k == "" {
			continue
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].sum += r.AnnualMedicalCost
		groups[i].count++
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })
	if byValue {
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].mean() < groups[j].mean() })
	}

	out := Series{Labels: make([]string, len(groups)), Data: make([]float64, len(groups))}
	for i, g := range groups {
		out.Labels[i] = g.key
		out.Data[i] = g.mean()
	}
	return out
}

func (d *Dataset) conditionCounts() CountSeries {
	var diabetes, hypertension, heart, asthma float64
	for _, r := range d.records {
		diabetes += r.Diabetes
		hypertension += r.Hypertension
		heart += r.HeartDisease
		asthma += r.Asthma
	}
	total := diabetes + hypertension + heart + asthma
	return CountSeries{
		Labels: []string{"Diabetes", "Hypertension", "Heart Disease", "Asthma", "No Conditions"},
		Data: []int{
			int(diabetes), int(hypertension), int(heart), int(asthma),
			int(float64(len(d.records)) - total),
		},
	}
}

func (d *Dataset) costByDoctorVisits() ScatterSeries {
	type visits struct {
		x     float64
		sum   float64
		count int
	}
	index := map[float64]int{}
	var groups []visits
	for _, r := range d.records {
		i, ok := index[r.DoctorVisitsPerYear]
		if !ok {
			i = len(groups)
			index[r.DoctorVisitsPerYear] = i
			groups = append(groups, visits{x: r.DoctorVisitsPerYear})
		}
		groups[i].sum += r.AnnualMedicalCost
		groups[i].count++
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].x < groups[j].x })

	out := ScatterSeries{
		Labels: make([]string, len(groups)),
		XData:  make([]float64, len(groups)),
		YData:  make([]float64, len(groups)),
		Sizes:  make([]float64, len(groups)),
	}
	for i, g := range groups {
		out.Labels[i] = fmt.Sprintf("%d visits", int(g.x))
		out.XData[i] = g.x
		out.YData[i] = g.sum / float64(g.count)
		out.Sizes[i] = float64(g.count) * 2
	}
	return out
}

func (d *Dataset) costByGenderAndSmoking() Series {
	out := Series{Labels: make([]string, len(polarGroups)), Data: make([]float64, len(polarGroups))}
	for i, pg := range polarGroups {
		sum, n := 0.0, 0
		for _, r := range d.records {
			if r.Gender == pg.gender && r.Smoker == pg.smoker {
				sum += r.AnnualMedicalCost
				n++
			}
		}
		out.Labels[i] = pg.label
		if n > 0 {
			out.Data[i] = sum / float64(n)
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func minMax(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
