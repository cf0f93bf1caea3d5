package profiling

import (
	"math"

	"github.com/montanaflynn/stats"
)

// ColumnSummary holds descriptive statistics of one column. Missing values
// are counted separately and excluded from every statistic.
type ColumnSummary struct {
	Column   string  `json:"column"`
	Count    int     `json:"count"`
	Missing  int     `json:"missing"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`
	Outliers int     `json:"outliers"`
}

// Summarize computes the summary of a column's values
func Summarize(column string, values []float64) (ColumnSummary, error) {
	summary := ColumnSummary{Column: column}

	data := make([]float64, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			summary.Missing++
			continue
		}
		data = append(data, v)
	}
	summary.Count = len(data)
	if len(data) == 0 {
		return summary, nil
	}

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

	// Quartiles for IQR-based outlier detection
	if summary.Q25, err = stats.PercentileNearestRank(data, 25); err != nil {
		return summary, err
	}
	if summary.Q75, err = stats.PercentileNearestRank(data, 75); err != nil {
		return summary, err
	}

	summary.Skewness = calculateSkewness(data, summary.Mean, summary.StdDev)
	summary.Outliers = detectOutliers(data, summary.Q25, summary.Q75)
	return summary, nil
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	skewness := sumCubedDeviations / n
	return skewness * math.Sqrt(n*(n-1)) / (n - 2)
}

// detectOutliers counts values outside 1.5 IQR of the quartiles
func detectOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lowerBound := q25 - 1.5*iqr
	upperBound := q75 + 1.5*iqr

	outlierCount := 0
	for _, x := range data {
		if x < lowerBound || x > upperBound {
			outlierCount++
		}
	}
	return outlierCount
}
