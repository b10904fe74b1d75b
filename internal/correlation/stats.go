// Package correlation turns price series into link values: Pearson correlation
// of returns for the correlation preset and correlation of rolling betas for the
// beta preset. BuildDocument assembles the results into a graph document.
package correlation

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Standardize returns the z-scores of x using the population standard deviation.
func Standardize(x []float64) []float64 {
	mean, std := stat.PopMeanStdDev(x, nil)
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - mean) / std
	}
	return out
}

// PctChange returns the percent change between consecutive values.
func PctChange(x []float64) []float64 {
	if len(x) < 2 {
		return []float64{}
	}
	out := make([]float64, len(x)-1)
	for i := 1; i < len(x); i++ {
		out[i-1] = (x[i] - x[i-1]) / x[i-1] * 100
	}
	return out
}

// RemoveOutliers drops every pair where either value is at least threshold
// standard deviations from its mean. x and y must have the same length.
func RemoveOutliers(x, y []float64, threshold float64) ([]float64, []float64) {
	meanX, stdX := stat.PopMeanStdDev(x, nil)
	meanY, stdY := stat.PopMeanStdDev(y, nil)

	keptX := make([]float64, 0, len(x))
	keptY := make([]float64, 0, len(y))
	for i := range x {
		// A constant series has no outliers.
		if stdX > 0 && math.Abs((x[i]-meanX)/stdX) >= threshold {
			continue
		}
		if stdY > 0 && math.Abs((y[i]-meanY)/stdY) >= threshold {
			continue
		}
		keptX = append(keptX, x[i])
		keptY = append(keptY, y[i])
	}
	return keptX, keptY
}

// Pearson returns the correlation coefficient of x and y, or 0 when either
// series is constant.
func Pearson(x, y []float64) float64 {
	if len(x) == 0 || len(x) != len(y) {
		return 0
	}
	_, stdX := stat.PopMeanStdDev(x, nil)
	_, stdY := stat.PopMeanStdDev(y, nil)
	if stdX == 0 || stdY == 0 {
		return 0
	}
	return stat.Correlation(x, y, nil)
}

// RollingBeta returns the beta of stock against market over the window ending
// before each index. Entries before the first full window, and windows where
// the market is constant, are NaN.
func RollingBeta(stock, market []float64, window int) []float64 {
	betas := make([]float64, len(stock))
	for i := range betas {
		betas[i] = math.NaN()
	}
	if window < 2 {
		return betas
	}

	for i := window; i < len(stock) && i <= len(market); i++ {
		s := stock[i-window : i]
		m := market[i-window : i]
		variance := stat.Variance(m, nil)
		if variance == 0 {
			continue
		}
		betas[i] = stat.Covariance(s, m, nil) / variance
	}
	return betas
}

// Metrics holds the pairwise measures of two return series.
type Metrics struct {
	Pearson         float64 `json:"pearson"`
	BetaCorrelation float64 `json:"beta_correlation"`
	RSquared        float64 `json:"r_squared"`
}

// ComputeMetrics measures two return series against each other and against
// the market. BetaCorrelation is NaN when fewer than two windows have a beta
// for both series.
func ComputeMetrics(returns1, returns2, market []float64, window int) Metrics {
	pearson := Pearson(returns1, returns2)
	m := Metrics{
		Pearson:         pearson,
		RSquared:        pearson * pearson,
		BetaCorrelation: math.NaN(),
	}

	betas1 := RollingBeta(returns1, market, window)
	betas2 := RollingBeta(returns2, market, window)

	var valid1, valid2 []float64
	for i := range betas1 {
		if i >= len(betas2) || math.IsNaN(betas1[i]) || math.IsNaN(betas2[i]) {
			continue
		}
		valid1 = append(valid1, betas1[i])
		valid2 = append(valid2, betas2[i])
	}
	if len(valid1) > 1 {
		m.BetaCorrelation = Pearson(valid1, valid2)
	}
	return m
}
