package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, mean(nil))
	assert.Equal(t, 3.0, mean([]float64{1, 2, 3, 4, 5}))
	assert.Equal(t, -2.0, mean([]float64{-1, -3}))
}

func TestPopStdDev(t *testing.T) {
	_, ok := popStdDev(nil)
	assert.False(t, ok)

	s, ok := popStdDev([]float64{5})
	require.True(t, ok)
	assert.Equal(t, 0.0, s)

	// {2, 4, 4, 4, 5, 5, 7, 9} is the textbook example with sigma = 2.
	s, ok = popStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.True(t, ok)
	assert.InDelta(t, 2.0, s, 1e-12)
}

func TestSampleStdDev(t *testing.T) {
	_, ok := sampleStdDev([]float64{1})
	assert.False(t, ok)

	s, ok := sampleStdDev([]float64{1, 2, 3, 4, 5})
	require.True(t, ok)
	assert.InDelta(t, 1.5811388300841898, s, 1e-12)
}

func TestPercentile(t *testing.T) {
	_, ok := percentile(nil, 50)
	assert.False(t, ok)

	v, ok := percentile([]float64{42}, 5)
	require.True(t, ok)
	assert.Equal(t, 42.0, v)

	v, ok = percentile([]float64{1, 2, 3, 4, 5}, 50)
	require.True(t, ok)
	assert.Equal(t, 3.0, v)

	// Linear interpolation between order statistics.
	v, ok = percentile([]float64{4, 1, 3, 2}, 25)
	require.True(t, ok)
	assert.InDelta(t, 1.75, v, 1e-12)

	v, ok = percentile([]float64{1, 2, 3, 4, 5}, 0)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)

	v, ok = percentile([]float64{1, 2, 3, 4, 5}, 100)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestSampleSkewness(t *testing.T) {
	_, ok := sampleSkewness([]float64{1, 2})
	assert.False(t, ok)

	_, ok = sampleSkewness([]float64{3, 3, 3})
	assert.False(t, ok)

	// Symmetric input has zero skew.
	v, ok := sampleSkewness([]float64{1, 2, 3, 4, 5})
	require.True(t, ok)
	assert.InDelta(t, 0.0, v, 1e-12)

	// Right-tailed input.
	v, ok = sampleSkewness([]float64{1, 2, 10})
	require.True(t, ok)
	assert.InDelta(t, 1.6523, v, 1e-4)
}

func TestSampleExcessKurtosis(t *testing.T) {
	_, ok := sampleExcessKurtosis([]float64{1, 2, 3})
	assert.False(t, ok)

	_, ok = sampleExcessKurtosis([]float64{2, 2, 2, 2})
	assert.False(t, ok)

	// Uniform spacing is platykurtic: G2 of {1..5} is exactly -1.2.
	v, ok := sampleExcessKurtosis([]float64{1, 2, 3, 4, 5})
	require.True(t, ok)
	assert.InDelta(t, -1.2, v, 1e-12)
}

func TestRound4(t *testing.T) {
	assert.Equal(t, 1.2346, round4(1.23456))
	assert.Equal(t, 1.2345, round4(1.23454))
	assert.Equal(t, -2.6667, round4(-2.66666))
	assert.Equal(t, 0.0, round4(0))
}
