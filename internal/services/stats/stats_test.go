package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.InDelta(t, 5.6, Mean([]float64{2, 3, 5, 7, 11}), 1e-12)
	assert.InEpsilon(t, 1.5e308, Mean([]float64{1.2e308, 1.8e308}), 1e-12)
}

func TestSampleStdDev(t *testing.T) {
	assert.Equal(t, 0.0, SampleStdDev(nil))
	assert.Equal(t, 0.0, SampleStdDev([]float64{42}))
	// variance with n-1: ((2-5)^2+(4-5)^2+(4-5)^2+(4-5)^2+(5-5)^2+(5-5)^2+(7-5)^2+(9-5)^2)/7 = 32/7
	assert.InDelta(t, math.Sqrt(32.0/7.0), SampleStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	assert.Equal(t, 0.0, SampleStdDev([]float64{3, 3, 3}))
}

func TestSampleCovariance(t *testing.T) {
	assert.Equal(t, 0.0, SampleCovariance([]float64{1, 2}, []float64{1}))
	assert.Equal(t, 0.0, SampleCovariance([]float64{1}, []float64{1}))
	// x̄=2, ȳ=4; Σ = (-1)(-2)+0+(1)(2) = 4; /2 = 2
	assert.InDelta(t, 2.0, SampleCovariance([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
	assert.InDelta(t, -1.0, SampleCovariance([]float64{1, 2, 3}, []float64{3, 2, 1}), 1e-12)
}

func TestPearsonPerfectPositive(t *testing.T) {
	assert.InDelta(t, 1.0, PearsonCorrelation([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-12)
}

func TestPearsonPerfectNegative(t *testing.T) {
	assert.InDelta(t, -1.0, PearsonCorrelation([]float64{1, 2, 3, 4}, []float64{8, 6, 4, 2}), 1e-12)
}

func TestPearsonKnownValue(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2, 1, 4, 3, 5}
	// cov = 2.0, sdX = sdY = sqrt(2.5)
	assert.InDelta(t, 0.8, PearsonCorrelation(xs, ys), 1e-12)
}

func TestPearsonDegenerate(t *testing.T) {
	assert.Equal(t, 0.0, PearsonCorrelation([]float64{1, 2, 3}, []float64{5, 5, 5}))
	assert.Equal(t, 0.0, PearsonCorrelation([]float64{7, 7}, []float64{1, 2}))
	assert.Equal(t, 0.0, PearsonCorrelation([]float64{1, 2, 3}, []float64{1, 2}))
	assert.Equal(t, 0.0, PearsonCorrelation([]float64{1}, []float64{1}))
	assert.Equal(t, 0.0, PearsonCorrelation(nil, nil))
}

func TestPearsonOverflowIsZero(t *testing.T) {
	xs := []float64{-1.7e308, 1.7e308}
	ys := []float64{1, 2}
	assert.Equal(t, 0.0, PearsonCorrelation(xs, ys))
}

func TestPearsonSymmetric(t *testing.T) {
	pairs := [][2][]float64{
		{{1, 2, 3, 4}, {10, 9, 12, 15}},
		{{0.5, 0.1, 0.9}, {3, 3.3, 2.8}},
		{{100, 101, 99, 102, 98}, {5, 5.5, 4.5, 6, 4}},
	}
	for _, p := range pairs {
		assert.Equal(t, PearsonCorrelation(p[0], p[1]), PearsonCorrelation(p[1], p[0]))
	}
}
