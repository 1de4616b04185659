package pipeline

import "transformd/pkg/contracts/domain"

// ComputeIndicators fills the windowed technical indicators for one ticker's
// date-ordered series. Every window is strict: a field stays nil until the
// full window of observations exists. Short series therefore come out with
// all windowed fields nil, which is valid output, not an error.
func ComputeIndicators(series []*domain.EnrichedRecord, cfg domain.BatchConfig) {
	n := len(series)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	returns := make([]*float64, n)
	for i, r := range series {
		closes[i] = r.Close
		volumes[i] = float64(r.Volume)
		returns[i] = r.DailyReturn
	}

	short := cfg.MAShortPeriod
	long := cfg.MALongPeriod
	volWindow := cfg.VolatilityWindow

	for i, r := range series {
		if i >= short-1 {
			r.MAShort = ptr(mean(closes[i-short+1 : i+1]))
			r.VolumeMA = ptr(mean(volumes[i-short+1 : i+1]))
		}
		if i >= long-1 {
			r.MALong = ptr(mean(closes[i-long+1 : i+1]))
		}

		if v, ok := windowStdDev(returns, i, short); ok {
			r.VolatilityShort = ptr(v)
		}
		if v, ok := windowStdDev(returns, i, volWindow); ok {
			r.VolatilityLong = ptr(v)
		}

		if i >= 1 && closes[i-1] != 0 {
			r.PriceChangePct = ptr((closes[i] - closes[i-1]) / closes[i-1] * 100)
		}

		if r.MAShort != nil && *r.MAShort != 0 {
			r.PriceVsMAShort = ptr((r.Close - *r.MAShort) / *r.MAShort * 100)
		}
		if r.MALong != nil && *r.MALong != 0 {
			r.PriceVsMALong = ptr((r.Close - *r.MALong) / *r.MALong * 100)
		}
		if r.VolumeMA != nil && *r.VolumeMA != 0 {
			r.VolumeTrend = ptr(float64(r.Volume) / *r.VolumeMA)
		}

		if v, ok := windowRSI(returns, i, cfg.RSIPeriod); ok {
			r.RSI = ptr(v)
		}
	}
}

// windowStdDev is the population standard deviation of the trailing w daily
// returns ending at index i. Defined only when the window is full and every
// return in it is present.
func windowStdDev(returns []*float64, i, w int) (float64, bool) {
	if i < w-1 {
		return 0, false
	}
	window := make([]float64, 0, w)
	for _, p := range returns[i-w+1 : i+1] {
		if p == nil {
			return 0, false
		}
		window = append(window, *p)
	}
	return popStdDev(window)
}

// windowRSI is the Wilder-style relative strength index over the trailing w
// daily returns ending at index i. Gains average positive returns, losses
// average the magnitude of negative returns; all-zero movement reads as the
// neutral 50, all-gain as 100.
func windowRSI(returns []*float64, i, w int) (float64, bool) {
	if i < w-1 {
		return 0, false
	}
	gains, losses := 0.0, 0.0
	for _, p := range returns[i-w+1 : i+1] {
		if p == nil {
			return 0, false
		}
		if *p > 0 {
			gains += *p
		} else {
			losses -= *p
		}
	}
	avgGain := gains / float64(w)
	avgLoss := losses / float64(w)
	switch {
	case avgLoss == 0 && avgGain == 0:
		return 50, true
	case avgLoss == 0:
		return 100, true
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs), true
}
