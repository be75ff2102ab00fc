package analysis

import (
	"math"
	"slices"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"afmdash/domain/core"
	"afmdash/domain/curves"
)

// DefaultBins is the histogram resolution used when none is requested
const DefaultBins = 10

// Bin is one histogram bucket covering [Lower, Upper)
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// ParameterSummary describes one parameter index across all curves
type ParameterSummary struct {
	Index     int     `json:"index"`
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	StdDev    float64 `json:"std_dev"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Q25       float64 `json:"q25"`
	Q75       float64 `json:"q75"`
	Skewness  float64 `json:"skewness"`
	Histogram []Bin   `json:"histogram"`
}

// Summary aggregates fit parameters of one model family
type Summary struct {
	Model      string             `json:"model"`
	Curves     int                `json:"curves"`
	Parameters []ParameterSummary `json:"parameters"`
}

// SummarizeFParams summarises force-model fit parameters
func SummarizeFParams(params []curves.FParam, bins int) (Summary, error) {
	rows := make([][]float64, len(params))
	for i, p := range params {
		rows[i] = p.FParam
	}
	return summarize("force_model", rows, bins)
}

// SummarizeElasticityParams summarises elasticity-model parameters
func SummarizeElasticityParams(params []curves.ElasticityParam, bins int) (Summary, error) {
	rows := make([][]float64, len(params))
	for i, p := range params {
		rows[i] = p.ElasticityParam
	}
	return summarize("elasticity_model", rows, bins)
}

func summarize(model string, rows [][]float64, bins int) (Summary, error) {
	if bins <= 0 {
		bins = DefaultBins
	}
	out := Summary{Model: model, Curves: len(rows), Parameters: []ParameterSummary{}}

	width := 0
	for _, r := range rows {
		width = max(width, len(r))
	}
	for idx := 0; idx < width; idx++ {
		column := make([]float64, 0, len(rows))
		for _, r := range rows {
			if idx < len(r) && !math.IsNaN(r[idx]) && !math.IsInf(r[idx], 0) {
				column = append(column, r[idx])
			}
		}
		ps, err := describe(idx, column, bins)
		if err != nil {
			return Summary{}, err
		}
		out.Parameters = append(out.Parameters, ps)
	}
	return out, nil
}

func describe(index int, data []float64, bins int) (ParameterSummary, error) {
	ps := ParameterSummary{Index: index, Count: len(data), Histogram: []Bin{}}
	if len(data) == 0 {
		return ps, nil
	}

	var err error
	if ps.Mean, err = stats.Mean(data); err != nil {
		return ps, err
	}
	if ps.StdDev, err = stats.StandardDeviation(data); err != nil {
		return ps, err
	}
	if ps.Min, err = stats.Min(data); err != nil {
		return ps, err
	}
	if ps.Max, err = stats.Max(data); err != nil {
		return ps, err
	}
	if ps.Median, err = stats.Median(data); err != nil {
		return ps, err
	}
	if ps.Q25, err = stats.PercentileNearestRank(data, 25); err != nil {
		return ps, err
	}
	if ps.Q75, err = stats.PercentileNearestRank(data, 75); err != nil {
		return ps, err
	}
	if len(data) >= 3 && ps.StdDev > 0 {
		ps.Skewness = stat.Skew(data, nil)
	}
	ps.Histogram = histogram(data, ps.Min, ps.Max, bins)
	return ps, nil
}

func histogram(data []float64, lo, hi float64, bins int) []Bin {
	if lo == hi {
		return []Bin{{Lower: lo, Upper: hi, Count: len(data)}}
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// the last divider must lie strictly above the maximum
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lower: dividers[i], Upper: dividers[i+1], Count: int(counts[i])}
	}
	return out
}

// ParamsOf returns the accumulated parameters of a model family
func ParamsOf(d curves.Datasets, model string) (Summary, error) {
	switch model {
	case "force_model", "fparams", "force":
		return SummarizeFParams(d.Indentation.CurvesFParam, DefaultBins)
	case "elasticity_model", "elasticity", "eparams":
		return SummarizeElasticityParams(d.Elasticity.CurvesElasticityParam, DefaultBins)
	}
	return Summary{}, core.NewValidationError("model", "expected force_model or elasticity_model")
}
