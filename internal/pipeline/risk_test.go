package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transformd/pkg/contracts/domain"
)

// riskSeries builds a single-ticker series carrying the given percent daily
// returns.
func riskSeries(pctReturns []float64) []*domain.EnrichedRecord {
	records := make([]domain.EnrichedRecord, len(pctReturns))
	series := make([]*domain.EnrichedRecord, len(pctReturns))
	for i := range pctReturns {
		records[i] = domain.EnrichedRecord{Ticker: "TEST", DailyReturn: &pctReturns[i]}
		series[i] = &records[i]
	}
	return series
}

func TestComputeRiskTooFewReturns(t *testing.T) {
	series := riskSeries([]float64{1.5})

	ComputeRisk(series)

	r := series[0]
	assert.Nil(t, r.MaxDrawdown)
	assert.Nil(t, r.SharpeRatio)
	assert.Nil(t, r.ValueAtRisk5)
	assert.Nil(t, r.ReturnSkewness)
	assert.Nil(t, r.ReturnKurtosis)
}

func TestComputeRiskKnownSeries(t *testing.T) {
	series := riskSeries([]float64{1, -2, 3, -1, 2})

	ComputeRisk(series)

	r := series[0]
	require.NotNil(t, r.MaxDrawdown)
	assert.InDelta(t, -0.02, *r.MaxDrawdown, 1e-9)

	// mean 0.006, sample std 0.0207364, annualized by sqrt(252).
	require.NotNil(t, r.SharpeRatio)
	assert.InDelta(t, 4.5932, *r.SharpeRatio, 1e-3)

	// 5th percentile of {-0.02,-0.01,0.01,0.02,0.03} with interpolation.
	require.NotNil(t, r.ValueAtRisk5)
	assert.InDelta(t, -0.018, *r.ValueAtRisk5, 1e-9)

	require.NotNil(t, r.ReturnSkewness)
	require.NotNil(t, r.ReturnKurtosis)
}

func TestComputeRiskBroadcastsToEveryRecord(t *testing.T) {
	series := riskSeries([]float64{1, -2, 3, -1, 2})

	ComputeRisk(series)

	first := series[0]
	for _, r := range series[1:] {
		assert.Equal(t, first.MaxDrawdown, r.MaxDrawdown)
		assert.Equal(t, first.SharpeRatio, r.SharpeRatio)
		assert.Equal(t, first.ValueAtRisk5, r.ValueAtRisk5)
		assert.Equal(t, first.ReturnSkewness, r.ReturnSkewness)
		assert.Equal(t, first.ReturnKurtosis, r.ReturnKurtosis)
	}
}

func TestComputeRiskMonotonicPathHasZeroDrawdown(t *testing.T) {
	series := riskSeries([]float64{1, 2, 0.5, 3})

	ComputeRisk(series)

	require.NotNil(t, series[0].MaxDrawdown)
	assert.Equal(t, 0.0, *series[0].MaxDrawdown)
}

func TestComputeRiskConstantReturnsHaveNilSharpe(t *testing.T) {
	series := riskSeries([]float64{1, 1, 1})

	ComputeRisk(series)

	r := series[0]
	assert.Nil(t, r.SharpeRatio)
	require.NotNil(t, r.MaxDrawdown)
	assert.Equal(t, 0.0, *r.MaxDrawdown)
	require.NotNil(t, r.ValueAtRisk5)
	assert.InDelta(t, 0.01, *r.ValueAtRisk5, 1e-12)
}

func TestComputeRiskSkipsMissingReturns(t *testing.T) {
	// Only one usable return: the whole risk block stays nil.
	one := 1.0
	records := []domain.EnrichedRecord{
		{Ticker: "TEST", DailyReturn: &one},
		{Ticker: "TEST"},
	}
	series := []*domain.EnrichedRecord{&records[0], &records[1]}

	ComputeRisk(series)

	assert.Nil(t, series[0].MaxDrawdown)
	assert.Nil(t, series[1].MaxDrawdown)
}

func TestComputeMaxDrawdown(t *testing.T) {
	tests := []struct {
		name    string
		returns []float64
		want    float64
	}{
		{"flat", []float64{0, 0, 0}, 0},
		{"single crash", []float64{-0.5}, -0.5},
		{"recovers past peak", []float64{-0.1, 0.5}, -0.1},
		{"two troughs keeps deepest", []float64{-0.1, 0.2, -0.3}, -0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeMaxDrawdown(tt.returns)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
