package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transformd/pkg/contracts/domain"
)

// makeSeries builds a date-ordered single-ticker series from (open, close,
// volume) triples and runs the basic metrics so daily returns are populated.
func makeSeries(rows [][3]float64) []*domain.EnrichedRecord {
	records := make([]domain.EnrichedRecord, len(rows))
	for i, row := range rows {
		open, closePrice, volume := row[0], row[1], row[2]
		high := open
		if closePrice > high {
			high = closePrice
		}
		low := open
		if closePrice < low {
			low = closePrice
		}
		records[i] = domain.EnrichedRecord{
			Ticker: "TEST",
			Date:   fmt.Sprintf("2024-01-%02dT00:00:00Z", i+1),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: int64(volume),
		}
	}
	ComputeBasics(records)

	series := make([]*domain.EnrichedRecord, len(records))
	for i := range records {
		series[i] = &records[i]
	}
	return series
}

func smallWindowConfig() domain.BatchConfig {
	cfg := domain.DefaultBatchConfig()
	cfg.MAShortPeriod = 3
	cfg.MALongPeriod = 5
	cfg.VolatilityWindow = 3
	cfg.RSIPeriod = 3
	return cfg
}

func TestComputeIndicatorsShortSeriesStaysNil(t *testing.T) {
	series := makeSeries([][3]float64{
		{100, 101, 1000},
		{101, 102, 1000},
	})

	ComputeIndicators(series, smallWindowConfig())

	for _, r := range series {
		assert.Nil(t, r.MAShort)
		assert.Nil(t, r.MALong)
		assert.Nil(t, r.VolatilityShort)
		assert.Nil(t, r.VolatilityLong)
		assert.Nil(t, r.VolumeMA)
		assert.Nil(t, r.VolumeTrend)
		assert.Nil(t, r.RSI)
	}

	// Price change needs only one prior close.
	assert.Nil(t, series[0].PriceChangePct)
	require.NotNil(t, series[1].PriceChangePct)
	assert.InDelta(t, (102.0-101.0)/101.0*100, *series[1].PriceChangePct, 1e-9)
}

func TestComputeIndicatorsMovingAverages(t *testing.T) {
	series := makeSeries([][3]float64{
		{1, 1, 100},
		{2, 2, 200},
		{3, 3, 300},
		{4, 4, 400},
		{5, 5, 500},
	})

	ComputeIndicators(series, smallWindowConfig())

	assert.Nil(t, series[1].MAShort)
	require.NotNil(t, series[2].MAShort)
	assert.InDelta(t, 2.0, *series[2].MAShort, 1e-12)
	require.NotNil(t, series[4].MAShort)
	assert.InDelta(t, 4.0, *series[4].MAShort, 1e-12)

	assert.Nil(t, series[3].MALong)
	require.NotNil(t, series[4].MALong)
	assert.InDelta(t, 3.0, *series[4].MALong, 1e-12)

	require.NotNil(t, series[2].VolumeMA)
	assert.InDelta(t, 200.0, *series[2].VolumeMA, 1e-12)
	require.NotNil(t, series[2].VolumeTrend)
	assert.InDelta(t, 1.5, *series[2].VolumeTrend, 1e-12)
}

func TestComputeIndicatorsFlatSeries(t *testing.T) {
	series := makeSeries([][3]float64{
		{100, 100, 1000},
		{100, 100, 1000},
		{100, 100, 1000},
		{100, 100, 1000},
	})

	ComputeIndicators(series, smallWindowConfig())

	r := series[3]
	require.NotNil(t, r.MAShort)
	assert.InDelta(t, 100.0, *r.MAShort, 1e-12)
	require.NotNil(t, r.VolatilityShort)
	assert.InDelta(t, 0.0, *r.VolatilityShort, 1e-12)
	require.NotNil(t, r.PriceVsMAShort)
	assert.InDelta(t, 0.0, *r.PriceVsMAShort, 1e-12)
	require.NotNil(t, r.VolumeTrend)
	assert.InDelta(t, 1.0, *r.VolumeTrend, 1e-12)

	// No movement at all reads as the neutral RSI.
	require.NotNil(t, r.RSI)
	assert.InDelta(t, 50.0, *r.RSI, 1e-12)
}

func TestComputeIndicatorsAllGainsRSI(t *testing.T) {
	// Every session closes above its open, so the window has no losses.
	series := makeSeries([][3]float64{
		{100, 101, 1000},
		{101, 102, 1000},
		{102, 103, 1000},
		{103, 104, 1000},
	})

	ComputeIndicators(series, smallWindowConfig())

	require.NotNil(t, series[3].RSI)
	assert.InDelta(t, 100.0, *series[3].RSI, 1e-12)
}

func TestComputeIndicatorsMixedRSI(t *testing.T) {
	// Window returns: +2%, -1%, +1% over opens of 100.
	series := makeSeries([][3]float64{
		{100, 102, 1000},
		{100, 99, 1000},
		{100, 101, 1000},
	})

	ComputeIndicators(series, smallWindowConfig())

	// avgGain = (2+1)/3 = 1, avgLoss = 1/3, RS = 3, RSI = 75.
	require.NotNil(t, series[2].RSI)
	assert.InDelta(t, 75.0, *series[2].RSI, 1e-9)
}

func TestWindowStdDevUndefinedOnMissingReturn(t *testing.T) {
	one := 1.0
	returns := []*float64{&one, nil, &one}

	_, ok := windowStdDev(returns, 2, 3)
	assert.False(t, ok)

	_, ok = windowStdDev(returns, 1, 3)
	assert.False(t, ok)
}

func TestWindowStdDevValue(t *testing.T) {
	vals := []float64{1, 2, 3}
	returns := []*float64{&vals[0], &vals[1], &vals[2]}

	v, ok := windowStdDev(returns, 2, 3)
	require.True(t, ok)
	// Population stddev of {1,2,3}.
	assert.InDelta(t, 0.816497, v, 1e-6)
}
