package pipeline

import (
	"math"
	"reflect"

	"transformd/pkg/contracts/domain"
)

// passThroughFields are the fundamentals copied verbatim from the raw row.
// They must round-trip byte for byte, so the sanitizer never touches them.
// JSON input cannot encode NaN or infinities, so they need no scrubbing.
var passThroughFields = map[string]struct{}{
	"MarketCap":     {},
	"TrailingPE":    {},
	"ForwardPE":     {},
	"DividendYield": {},
	"DividendRate":  {},
	"AverageVolume": {},
	"PreviousClose": {},
}

// Sanitize is the terminal pass over every record before encoding. Any
// nullable float metric holding NaN or an infinity becomes nil, and every
// surviving value is rounded to 4 decimal places. Runs after all phases so
// no non-finite number can reach the JSON boundary.
func Sanitize(records []domain.EnrichedRecord) {
	for i := range records {
		sanitizeRecord(&records[i])
	}
}

func sanitizeRecord(r *domain.EnrichedRecord) {
	v := reflect.ValueOf(r).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		if _, ok := passThroughFields[t.Field(i).Name]; ok {
			continue
		}
		f := v.Field(i)
		if f.Kind() != reflect.Ptr || f.IsNil() || f.Type().Elem().Kind() != reflect.Float64 {
			continue
		}
		val := f.Elem().Float()
		if math.IsNaN(val) || math.IsInf(val, 0) {
			f.Set(reflect.Zero(f.Type()))
			continue
		}
		f.Elem().SetFloat(round4(val))
	}
}
