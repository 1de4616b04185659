package pipeline

import (
	"math"
	"sort"
)

// Statistical helpers shared by the windowed indicator engine and the risk
// metrics calculator. All functions return (0, false) style "undefined"
// results instead of NaN where the input cannot support the statistic; the
// terminal sanitizer catches anything that slips through regardless.

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// popStdDev is the population standard deviation (divide by n).
func popStdDev(values []float64) (float64, bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n)), true
}

// sampleStdDev is the sample standard deviation (divide by n-1).
func sampleStdDev(values []float64) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1)), true
}

// percentile returns the p-th percentile (0-100) of values using linear
// interpolation between order statistics.
func percentile(values []float64, p float64) (float64, bool) {
	n := len(values)
	if n == 0 {
		return 0, false
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n == 1 {
		return sorted[0], true
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo, hi = 0, 0
	}
	if hi > n-1 {
		lo, hi = n-1, n-1
	}
	if lo == hi {
		return sorted[lo], true
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), true
}

// sampleSkewness is the bias-corrected Fisher skewness G1.
// Undefined for fewer than 3 points or zero variance.
func sampleSkewness(values []float64) (float64, bool) {
	n := float64(len(values))
	if n < 3 {
		return 0, false
	}
	s, ok := sampleStdDev(values)
	if !ok || s == 0 {
		return 0, false
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		z := (v - m) / s
		sum += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * sum, true
}

// sampleExcessKurtosis is the bias-corrected excess kurtosis G2.
// Undefined for fewer than 4 points or zero variance.
func sampleExcessKurtosis(values []float64) (float64, bool) {
	n := float64(len(values))
	if n < 4 {
		return 0, false
	}
	s, ok := sampleStdDev(values)
	if !ok || s == 0 {
		return 0, false
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		z := (v - m) / s
		sum += z * z * z * z
	}
	term := n * (n + 1) / ((n - 1) * (n - 2) * (n - 3)) * sum
	correction := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return term - correction, true
}

// round4 rounds to 4 decimal places, the precision carried at the boundary.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func ptr(v float64) *float64 {
	return &v
}
