// Package stats holds the numeric routines behind the correlation endpoint:
// sample statistics over float slices and time alignment of two price series.
package stats

import "math"

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
// It keeps a running mean so large same-sign values do not overflow a sum.
func Mean(xs []float64) float64 {
	m := 0.0
	for i, x := range xs {
		m += (x - m) / float64(i+1)
	}
	return m
}

// SampleStdDev returns the Bessel-corrected standard deviation (divides by n-1).
// Fewer than two values yield 0.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	return sampleStdDev(xs, Mean(xs))
}

func sampleStdDev(xs []float64, mean float64) float64 {
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// SampleCovariance returns Σ(x-x̄)(y-ȳ)/(n-1). Mismatched lengths or fewer
// than two pairs yield 0.
func SampleCovariance(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}
	return sampleCovariance(xs, ys, Mean(xs), Mean(ys))
}

func sampleCovariance(xs, ys []float64, meanX, meanY float64) float64 {
	sum := 0.0
	for i := range xs {
		sum += (xs[i] - meanX) * (ys[i] - meanY)
	}
	return sum / float64(len(xs)-1)
}

// PearsonCorrelation returns cov(x,y)/(σx·σy).
// It is 0, not NaN, when lengths differ, there are fewer than two pairs, or
// either series is constant, and when the quotient overflows. The result is
// not clamped.
func PearsonCorrelation(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0
	}

	meanX, meanY := Mean(xs), Mean(ys)
	sdX := sampleStdDev(xs, meanX)
	sdY := sampleStdDev(ys, meanY)
	if sdX == 0 || sdY == 0 {
		return 0
	}

	r := sampleCovariance(xs, ys, meanX, meanY) / (sdX * sdY)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
