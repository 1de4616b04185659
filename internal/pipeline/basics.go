package pipeline

import "transformd/pkg/contracts/domain"

// Market-cap category thresholds in USD.
const (
	smallCapCeiling = 2e9
	midCapCeiling   = 1e10
)

// ComputeBasics fills the per-row metrics that need no history and no other
// rows: daily return, price range, typical price, relative volume,
// volume-weighted price, PE growth and the market-cap bucket. Undefined
// inputs leave the corresponding metric nil.
func ComputeBasics(records []domain.EnrichedRecord) {
	for i := range records {
		r := &records[i]

		if r.Open > 0 {
			r.DailyReturn = ptr((r.Close - r.Open) / r.Open * 100)
		}
		r.PriceRange = ptr(r.High - r.Low)

		typical := (r.High + r.Low + r.Close) / 3
		r.TypicalPrice = ptr(typical)
		r.VolumeWeightedPrice = ptr(typical * float64(r.Volume))

		if r.AverageVolume != nil && *r.AverageVolume > 0 {
			r.RelativeVolume = ptr(float64(r.Volume) / *r.AverageVolume)
		}

		if r.TrailingPE != nil && r.ForwardPE != nil {
			r.PEGrowth = ptr(*r.TrailingPE - *r.ForwardPE)
		}

		if r.MarketCap != nil {
			r.MarketCapCategory = marketCapCategory(*r.MarketCap)
		}
	}
}

func marketCapCategory(cap float64) *string {
	var c string
	switch {
	case cap < smallCapCeiling:
		c = "Small"
	case cap < midCapCeiling:
		c = "Mid"
	default:
		c = "Large"
	}
	return &c
}
