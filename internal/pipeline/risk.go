package pipeline

import (
	"math"

	"transformd/pkg/contracts/domain"
)

// tradingDaysPerYear annualizes daily Sharpe ratios.
const tradingDaysPerYear = 252

// ComputeRisk calculates drawdown, Sharpe ratio, VaR, skewness and kurtosis
// over one ticker's full return history within the batch, then attaches the
// same values to every record of the series. Returns are used in decimal
// form. Metrics that need more points than the series has stay nil.
func ComputeRisk(series []*domain.EnrichedRecord) {
	returns := make([]float64, 0, len(series))
	for _, r := range series {
		if r.DailyReturn != nil {
			returns = append(returns, *r.DailyReturn/100)
		}
	}
	if len(returns) < 2 {
		return
	}

	maxDrawdown := ptr(computeMaxDrawdown(returns))

	var sharpe *float64
	if s, ok := sampleStdDev(returns); ok && s > 0 {
		sharpe = ptr(mean(returns) / s * math.Sqrt(tradingDaysPerYear))
	}

	var valueAtRisk *float64
	if v, ok := percentile(returns, 5); ok {
		valueAtRisk = ptr(v)
	}

	var skew *float64
	if v, ok := sampleSkewness(returns); ok {
		skew = ptr(v)
	}
	var kurt *float64
	if v, ok := sampleExcessKurtosis(returns); ok {
		kurt = ptr(v)
	}

	for _, r := range series {
		r.MaxDrawdown = maxDrawdown
		r.SharpeRatio = sharpe
		r.ValueAtRisk5 = valueAtRisk
		r.ReturnSkewness = skew
		r.ReturnKurtosis = kurt
	}
}

// computeMaxDrawdown is the deepest peak-to-trough decline of the cumulative
// return path, as a decimal in (-1, 0]. Zero means the path never fell below
// a prior peak.
func computeMaxDrawdown(returns []float64) float64 {
	cumulative := 1.0
	runningMax := 1.0
	worst := 0.0
	for _, r := range returns {
		cumulative *= 1 + r
		if cumulative > runningMax {
			runningMax = cumulative
		}
		dd := (cumulative - runningMax) / runningMax
		if dd < worst {
			worst = dd
		}
	}
	return worst
}
