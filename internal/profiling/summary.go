// Package profiling computes per-field distribution summaries over batches
// of generated records.
package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"scenforge/domain/scenario"
)

// FieldSummary describes the empirical distribution of one numeric leaf
// field across a batch of records.
type FieldSummary struct {
	Path     string  `json:"path"`
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
	Kurtosis float64 `json:"kurtosis"`
	Normal   bool    `json:"normal"`
	NormalP  float64 `json:"normal_p"`
}

// Summarize flattens each record to dot paths, collects the numeric leaves,
// and computes a FieldSummary per path. Non-numeric fields are skipped, as
// are paths seen in fewer than two records.
func Summarize(records []scenario.Record) (map[string]FieldSummary, error) {
	byPath := make(map[string][]float64)
	for _, rec := range records {
		for path, value := range rec.Flatten() {
			if f, ok := numericValue(value); ok {
				byPath[path] = append(byPath[path], f)
			}
		}
	}

	paths := make([]string, 0, len(byPath))
	for path := range byPath {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	summaries := make(map[string]FieldSummary, len(byPath))
	for _, path := range paths {
		data := byPath[path]
		if len(data) < 2 {
			continue
		}
		summary, err := summarize(path, data)
		if err != nil {
			return nil, err
		}
		summaries[path] = summary
	}
	return summaries, nil
}

func summarize(path string, data []float64) (FieldSummary, error) {
	summary := FieldSummary{Path: path, Count: len(data)}

	var err error
	if summary.Mean, err = stats.Mean(data); err != nil {
		return summary, err
	}
	if summary.StdDev, err = stats.StandardDeviation(data); err != nil {
		return summary, err
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return summary, err
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return summary, err
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return summary, err
	}
	if summary.Q25, err = stats.Percentile(data, 25); err != nil {
		return summary, err
	}
	if summary.Q75, err = stats.Percentile(data, 75); err != nil {
		return summary, err
	}

	summary.Skewness = skewness(data, summary.Mean, summary.StdDev)
	summary.Kurtosis = kurtosis(data, summary.Mean, summary.StdDev)
	summary.Normal, summary.NormalP = jarqueBera(len(data), summary.Skewness, summary.Kurtosis)
	return summary, nil
}

// skewness computes sample skewness via standardized third moments.
func skewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d
	}
	return sum / n
}

// kurtosis computes sample excess kurtosis via standardized fourth moments.
func kurtosis(data []float64, mean, stdDev float64) float64 {
	if len(data) < 4 || stdDev == 0 {
		return 0
	}
	n := float64(len(data))
	sum := 0.0
	for _, x := range data {
		d := (x - mean) / stdDev
		sum += d * d * d * d
	}
	return sum/n - 3
}

// jarqueBera probes normality from skewness and excess kurtosis: the JB
// statistic is asymptotically chi-squared with 2 degrees of freedom under
// the normal null. A rough screen, not a substitute for a proper test.
func jarqueBera(n int, skew, excessKurt float64) (normal bool, pValue float64) {
	if n < 8 {
		return false, 1.0
	}
	jb := float64(n) / 6 * (skew*skew + excessKurt*excessKurt/4)
	chi := distuv.ChiSquared{K: 2}
	pValue = 1 - chi.CDF(jb)
	if math.IsNaN(pValue) {
		pValue = 0
	}
	return pValue > 0.05, pValue
}

// numericValue views a leaf as float64 when it carries a number. Generated
// records hold float64 and int; JSON round-trips hand back float64 only.
func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
