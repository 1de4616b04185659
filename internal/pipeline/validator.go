package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"transformd/pkg/contracts/domain"
)

// Sentinel errors surfaced by the validation phase. Handlers map these to
// request-level failures; individual bad rows are dropped and counted, never
// reported one by one.
var (
	ErrNoValidRecords = errors.New("no valid records after cleaning")
	ErrBatchTooLarge  = errors.New("batch exceeds maximum size")
)

var tickerPattern = regexp.MustCompile(`^[A-Za-z]{1,5}$`)

// dateFormats lists the timestamp layouts accepted for the Date field, in the
// order they are tried.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
}

// Clean decodes and filters raw rows into validated records. A row is dropped
// (and counted) when it fails to decode, is missing any of OHLCV, has a
// non-positive price or negative volume, violates Low <= {Open, Close} <= High,
// has a ticker that is not 1-5 letters, or carries an unparseable date.
// Returns ErrBatchTooLarge before any per-row work when the input exceeds
// maxBatch.
func Clean(raw []json.RawMessage, maxBatch int) ([]domain.EnrichedRecord, int, error) {
	if maxBatch > 0 && len(raw) > maxBatch {
		return nil, 0, fmt.Errorf("%w: %d rows, limit %d", ErrBatchTooLarge, len(raw), maxBatch)
	}

	records := make([]domain.EnrichedRecord, 0, len(raw))
	dropped := 0

	for _, row := range raw {
		rec, ok := cleanRow(row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	return records, dropped, nil
}

func cleanRow(row json.RawMessage) (domain.EnrichedRecord, bool) {
	var r domain.RawRecord
	if err := json.Unmarshal(row, &r); err != nil {
		return domain.EnrichedRecord{}, false
	}

	if r.Open == nil || r.High == nil || r.Low == nil || r.Close == nil || r.Volume == nil {
		return domain.EnrichedRecord{}, false
	}
	open, high, low, closePrice := *r.Open, *r.High, *r.Low, *r.Close
	if open <= 0 || high <= 0 || low <= 0 || closePrice <= 0 {
		return domain.EnrichedRecord{}, false
	}
	volume := *r.Volume
	if volume < 0 {
		return domain.EnrichedRecord{}, false
	}
	if !(low <= open && open <= high && low <= closePrice && closePrice <= high) {
		return domain.EnrichedRecord{}, false
	}

	ticker := ""
	if r.Ticker != nil {
		ticker = strings.TrimSpace(*r.Ticker)
	}
	if !tickerPattern.MatchString(ticker) {
		return domain.EnrichedRecord{}, false
	}

	if r.Date == nil {
		return domain.EnrichedRecord{}, false
	}
	date, ok := normalizeDate(*r.Date)
	if !ok {
		return domain.EnrichedRecord{}, false
	}

	rec := domain.EnrichedRecord{
		Ticker:        strings.ToUpper(ticker),
		Date:          date,
		Open:          round4(open),
		High:          round4(high),
		Low:           round4(low),
		Close:         round4(closePrice),
		Volume:        int64(volume),
		MarketCap:     r.MarketCap,
		TrailingPE:    r.TrailingPE,
		ForwardPE:     r.ForwardPE,
		DividendYield: r.DividendYield,
		DividendRate:  r.DividendRate,
		AverageVolume: r.AverageVolume,
		PreviousClose: r.PreviousClose,
	}
	if r.Dividend != nil {
		rec.Dividend = *r.Dividend
	}
	if r.Industry != nil {
		rec.Industry = *r.Industry
	}
	if r.Sector != nil {
		rec.Sector = *r.Sector
	}
	return rec, true
}

// normalizeDate parses a timestamp in any accepted layout and re-renders it as
// UTC ISO-8601 with a trailing Z.
func normalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(time.RFC3339), true
		}
	}
	return "", false
}
