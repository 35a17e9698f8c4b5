// Package llr aggregates per-window bootstrap log-likelihood ratios into
// binned chromosome-wide statistics. Two aggregation modes are supported: the
// pooled mean/standard-error of window means and a robust median/MAD
// alternative. A series never mixes modes.
package llr

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sentinel values returned by LLR when one or both likelihoods vanish. They
// stay finite and are distinguishable from genuine log-ratios.
const (
	SentinelPos = +1.23456789
	SentinelNeg = -1.23456789
)

// LLR returns log(y/x), with sentinels for vanishing likelihoods: a zero
// numerator gives SentinelNeg, a zero denominator SentinelPos, and both zero
// give 0.
func LLR(y, x float64) float64 {
	switch {
	case x != 0 && y != 0:
		return math.Log(y / x)
	case x != 0:
		return SentinelNeg
	case y != 0:
		return SentinelPos
	}
	return 0
}

// Window is one genomic window with the bootstrap LLR replicates computed for
// it. Replicate index is paired across the windows of one chromosome.
type Window struct {
	Start   int
	End     int
	Samples []float64
}

// Mid returns the window midpoint.
func (w Window) Mid() float64 {
	return float64(w.Start+w.End) / 2
}

// MeanVar returns the sample mean and the unbiased sample variance of one
// window's replicates.
func MeanVar(samples []float64) (mean, variance float64) {
	return stat.Mean(samples, nil), stat.Variance(samples, nil)
}

// PooledMeanStd combines the windows of one bin. Each row of the matrix is
// one window's replicates, with replicate index paired across rows. The mean
// is the mean of window means; the standard error follows the Bienaymé
// formula over the per-replicate sums: the variance of the stacked sums
// divided by (replicates-1), square-rooted, divided by the window count.
func PooledMeanStd(matrix [][]float64) (mean, std float64, err error) {
	m := len(matrix)
	if m == 0 {
		return 0, 0, fmt.Errorf("llr: no windows to pool")
	}
	n := len(matrix[0])
	if n < 2 {
		return 0, 0, fmt.Errorf("llr: need at least 2 replicates, got %d", n)
	}
	var mu float64
	for _, row := range matrix {
		if len(row) != n {
			return 0, 0, fmt.Errorf("llr: ragged replicate matrix: %d vs %d", len(row), n)
		}
		mu += stat.Mean(row, nil)
	}
	var ss float64
	for j := 0; j < n; j++ {
		var s float64
		for _, row := range matrix {
			s += row[j]
		}
		ss += (s - mu) * (s - mu)
	}
	std = math.Sqrt(ss/float64(n-1)) / float64(m)
	return mu / float64(m), std, nil
}

// consistency factor relating the MAD of a normal sample to its standard
// deviation.
const madScale = 1.4826

// RobustMeanStd is the median/MAD counterpart of PooledMeanStd: the median of
// window medians, with a scale from the MAD of the window medians divided by
// the square root of the window count.
func RobustMeanStd(matrix [][]float64) (med, std float64, err error) {
	m := len(matrix)
	if m == 0 {
		return 0, 0, fmt.Errorf("llr: no windows to pool")
	}
	medians := make([]float64, m)
	for i, row := range matrix {
		if len(row) == 0 {
			return 0, 0, fmt.Errorf("llr: window %d has no replicates", i)
		}
		medians[i] = median(row)
	}
	med = median(medians)
	dev := make([]float64, m)
	for i, v := range medians {
		dev[i] = math.Abs(v - med)
	}
	std = madScale * median(dev) / math.Sqrt(float64(m))
	return med, std, nil
}

func median(x []float64) float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return stat.Quantile(0.5, stat.Empirical, s, nil)
}
