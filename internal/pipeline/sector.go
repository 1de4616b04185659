package pipeline

import "transformd/pkg/contracts/domain"

type groupKey struct {
	name string
	date string
}

// ComputeSectorAnalysis fills the cross-sectional comparison fields. Records
// are grouped by (sector, date) and separately by (industry, date) so that
// multi-day batches never conflate different trading days. Records with an
// empty or "Unknown" sector/industry keep nil comparison fields. A singleton
// group compares the record against itself, giving a relative performance
// of exactly 0.
func ComputeSectorAnalysis(records []domain.EnrichedRecord) {
	sectorReturns := make(map[groupKey][]float64)
	industryReturns := make(map[groupKey][]float64)
	sectorPE := make(map[groupKey][]float64)

	for i := range records {
		r := &records[i]
		if r.DailyReturn != nil {
			if k, ok := keyFor(r.Sector, r.Date); ok {
				sectorReturns[k] = append(sectorReturns[k], *r.DailyReturn)
			}
			if k, ok := keyFor(r.Industry, r.Date); ok {
				industryReturns[k] = append(industryReturns[k], *r.DailyReturn)
			}
		}
		if r.TrailingPE != nil {
			if k, ok := keyFor(r.Sector, r.Date); ok {
				sectorPE[k] = append(sectorPE[k], *r.TrailingPE)
			}
		}
	}

	sectorAvg := averages(sectorReturns)
	industryAvg := averages(industryReturns)
	peAvg := averages(sectorPE)

	for i := range records {
		r := &records[i]
		if r.DailyReturn != nil {
			if k, ok := keyFor(r.Sector, r.Date); ok {
				if avg, found := sectorAvg[k]; found {
					r.SectorAvgReturn = ptr(avg)
					r.SectorRelPerf = ptr(*r.DailyReturn - avg)
				}
			}
			if k, ok := keyFor(r.Industry, r.Date); ok {
				if avg, found := industryAvg[k]; found {
					r.IndustryAvgReturn = ptr(avg)
					r.IndustryRelPerf = ptr(*r.DailyReturn - avg)
				}
			}
		}
		if r.TrailingPE != nil {
			if k, ok := keyFor(r.Sector, r.Date); ok {
				if avg, found := peAvg[k]; found && avg != 0 {
					r.PEVsSectorAvg = ptr(*r.TrailingPE / avg)
				}
			}
		}
	}
}

func keyFor(name, date string) (groupKey, bool) {
	if name == "" || name == "Unknown" {
		return groupKey{}, false
	}
	return groupKey{name: name, date: date}, true
}

func averages(groups map[groupKey][]float64) map[groupKey]float64 {
	out := make(map[groupKey]float64, len(groups))
	for k, values := range groups {
		out[k] = mean(values)
	}
	return out
}
