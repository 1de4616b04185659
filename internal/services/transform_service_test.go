package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transformd/internal/extract"
	"transformd/internal/pipeline"
	"transformd/pkg/contracts/domain"
)

type stubFetcher struct {
	batch *extract.Batch
	err   error

	gotBaseURL string
	gotTickers []string
	gotPeriod  string
}

func (s *stubFetcher) FetchMany(ctx context.Context, baseURL string, tickers []string, period string) (*extract.Batch, error) {
	s.gotBaseURL = baseURL
	s.gotTickers = tickers
	s.gotPeriod = period
	if s.err != nil {
		return nil, s.err
	}
	return s.batch, nil
}

func testRows(t *testing.T, ticker string, days int) []json.RawMessage {
	t.Helper()
	rows := make([]json.RawMessage, days)
	for i := 0; i < days; i++ {
		row := map[string]interface{}{
			"Ticker": ticker,
			"Date":   fmt.Sprintf("2024-01-%02d", i+1),
			"Open":   100.0,
			"High":   102.0,
			"Low":    99.0,
			"Close":  101.0,
			"Volume": 1000.0,
		}
		b, err := json.Marshal(row)
		require.NoError(t, err)
		rows[i] = b
	}
	return rows
}

func newTestService(fetcher ExtractFetcher) *TransformService {
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewTransformService(pipeline.New(nil), fetcher, domain.DefaultBatchConfig(), "http://extract:8001", metrics, nil)
}

func TestTransformRunsPipeline(t *testing.T) {
	svc := newTestService(&stubFetcher{})

	result, err := svc.Transform(context.Background(), testRows(t, "aapl", 5), nil)
	require.NoError(t, err)

	assert.Equal(t, 5, result.RecordsProcessed)
	assert.Equal(t, 0, result.RecordsCleaned)
	require.Len(t, result.Records, 5)
	assert.Equal(t, "AAPL", result.Records[0].Ticker)
	assert.False(t, result.Timestamp.IsZero())
}

func TestTransformCountsDroppedRows(t *testing.T) {
	svc := newTestService(&stubFetcher{})

	rows := append(testRows(t, "AAPL", 3), json.RawMessage(`{"Ticker":"BAD"}`))
	result, err := svc.Transform(context.Background(), rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.RecordsProcessed)
	assert.Equal(t, 1, result.RecordsCleaned)
}

func TestTransformAppliesPatch(t *testing.T) {
	svc := newTestService(&stubFetcher{})

	off := false
	patch := &domain.BatchConfigPatch{
		EnableTechnicalIndicators: &off,
		EnableRiskMetrics:         &off,
		EnableSectorAnalysis:      &off,
	}

	result, err := svc.Transform(context.Background(), testRows(t, "AAPL", 5), patch)
	require.NoError(t, err)

	for _, r := range result.Records {
		assert.Nil(t, r.MAShort)
		assert.Nil(t, r.MaxDrawdown)
		assert.Nil(t, r.SectorAvgReturn)
	}
}

func TestTransformPropagatesPipelineError(t *testing.T) {
	svc := newTestService(&stubFetcher{})

	_, err := svc.Transform(context.Background(), []json.RawMessage{json.RawMessage(`{}`)}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pipeline.ErrNoValidRecords))
}

func TestTransformBatchRequiresTickers(t *testing.T) {
	svc := newTestService(&stubFetcher{})

	_, err := svc.TransformBatch(context.Background(), nil, "1mo", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingTickers))
}

func TestTransformBatchUsesUpstreamBatchID(t *testing.T) {
	fetcher := &stubFetcher{batch: &extract.Batch{
		BatchID: "upstream-42",
		Tickers: []string{"AAPL"},
		Records: testRows(t, "AAPL", 5),
	}}
	svc := newTestService(fetcher)

	result, err := svc.TransformBatch(context.Background(), []string{"AAPL"}, "1mo", "", nil)
	require.NoError(t, err)

	assert.Equal(t, "upstream-42", result.BatchID)
	assert.Equal(t, []string{"AAPL"}, result.TickersRequested)
	assert.Equal(t, 5, result.RecordsProcessed)

	// Default collaborator address when the request names none.
	assert.Equal(t, "http://extract:8001", fetcher.gotBaseURL)
	assert.Equal(t, "1mo", fetcher.gotPeriod)
}

func TestTransformBatchGeneratesBatchIDFallback(t *testing.T) {
	fetcher := &stubFetcher{batch: &extract.Batch{
		Tickers: []string{"AAPL"},
		Records: testRows(t, "AAPL", 5),
	}}
	svc := newTestService(fetcher)

	result, err := svc.TransformBatch(context.Background(), []string{"AAPL"}, "1mo", "", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.BatchID)
}

func TestTransformBatchOverridesExtractURL(t *testing.T) {
	fetcher := &stubFetcher{batch: &extract.Batch{
		Records: testRows(t, "AAPL", 5),
	}}
	svc := newTestService(fetcher)

	_, err := svc.TransformBatch(context.Background(), []string{"AAPL"}, "1mo", "http://other:9000", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://other:9000", fetcher.gotBaseURL)
}

func TestTransformBatchPropagatesUpstreamError(t *testing.T) {
	fetcher := &stubFetcher{err: fmt.Errorf("%w: connection refused", extract.ErrUpstreamUnavailable)}
	svc := newTestService(fetcher)

	_, err := svc.TransformBatch(context.Background(), []string{"AAPL"}, "1mo", "", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrUpstreamUnavailable))
}

func TestConfigView(t *testing.T) {
	svc := newTestService(&stubFetcher{})

	view := svc.Config(context.Background())
	assert.Equal(t, domain.DefaultBatchConfig(), view.Config)
	assert.Len(t, view.Features, 4)
	assert.Contains(t, view.Features, "phase_1")
	assert.Contains(t, view.Features, "phase_4")
}
