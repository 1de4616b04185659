package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"transformd/internal/extract"
	"transformd/internal/pipeline"
	"transformd/pkg/contracts/domain"
)

// TransformResult is the outcome of a direct transform call.
type TransformResult struct {
	RecordsProcessed int
	RecordsCleaned   int
	Records          []domain.EnrichedRecord
	Timestamp        time.Time
}

// BatchResult is the outcome of an extract-then-transform call.
type BatchResult struct {
	BatchID          string
	TickersRequested []string
	TransformResult
}

// ConfigView is the configuration introspection payload.
type ConfigView struct {
	Config   domain.BatchConfig `json:"config"`
	Features map[string]string  `json:"features"`
}

// ExtractFetcher fetches raw rows from the extract service.
type ExtractFetcher interface {
	FetchMany(ctx context.Context, baseURL string, tickers []string, period string) (*extract.Batch, error)
}

// TransformService orchestrates the pipeline, the extract client and the
// per-request configuration merge.
type TransformService struct {
	pipeline       *pipeline.Pipeline
	extractor      ExtractFetcher
	defaults       domain.BatchConfig
	extractBaseURL string
	metrics        *Metrics
	logger         *slog.Logger
}

// NewTransformService creates a transform service. extractBaseURL is the
// default collaborator address; a request may name its own.
func NewTransformService(p *pipeline.Pipeline, extractor ExtractFetcher, defaults domain.BatchConfig, extractBaseURL string, metrics *Metrics, logger *slog.Logger) *TransformService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransformService{
		pipeline:       p,
		extractor:      extractor,
		defaults:       defaults,
		extractBaseURL: extractBaseURL,
		metrics:        metrics,
		logger:         logger.With(slog.String("component", "transform_service")),
	}
}

// Transform runs the pipeline over caller-supplied raw rows. The patch, when
// present, overrides individual pipeline defaults for this call only.
func (s *TransformService) Transform(ctx context.Context, raw []json.RawMessage, patch *domain.BatchConfigPatch) (*TransformResult, error) {
	cfg := patch.Apply(s.defaults)

	start := time.Now()
	result, err := s.pipeline.Transform(ctx, raw, cfg)
	if err != nil {
		s.observe("error", 0, 0, time.Since(start))
		return nil, err
	}
	s.observe("success", len(result.Records), result.Dropped, time.Since(start))

	return &TransformResult{
		RecordsProcessed: len(result.Records),
		RecordsCleaned:   result.Dropped,
		Records:          result.Records,
		Timestamp:        time.Now().UTC(),
	}, nil
}

// TransformBatch fetches raw rows for the tickers from the extract service
// and runs the same pipeline over the flattened result. The batch ID is the
// collaborator's when it provides one, otherwise a fresh UUID.
func (s *TransformService) TransformBatch(ctx context.Context, tickers []string, period, extractURL string, patch *domain.BatchConfigPatch) (*BatchResult, error) {
	if len(tickers) == 0 {
		return nil, ErrMissingTickers
	}
	if extractURL == "" {
		extractURL = s.extractBaseURL
	}

	batch, err := s.extractor.FetchMany(ctx, extractURL, tickers, period)
	if err != nil {
		s.metrics.BatchesTotal.WithLabelValues("upstream_error").Inc()
		return nil, err
	}

	batchID := batch.BatchID
	if batchID == "" {
		batchID = uuid.New().String()
	}

	result, err := s.Transform(ctx, batch.Records, patch)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "batch transform complete",
		slog.String("batch_id", batchID),
		slog.Int("tickers_requested", len(tickers)),
		slog.Int("records_processed", result.RecordsProcessed))

	return &BatchResult{
		BatchID:          batchID,
		TickersRequested: tickers,
		TransformResult:  *result,
	}, nil
}

// Config returns the active pipeline defaults plus the phase description map.
func (s *TransformService) Config(ctx context.Context) ConfigView {
	return ConfigView{
		Config: s.defaults,
		Features: map[string]string{
			"phase_1": "Data cleaning & basic price/volume metrics",
			"phase_2": "Moving averages & volatility calculations",
			"phase_3": "Technical indicators & sector analysis",
			"phase_4": "Advanced risk metrics",
		},
	}
}

func (s *TransformService) observe(outcome string, processed, dropped int, d time.Duration) {
	if s.metrics == nil {
		return
	}
	s.metrics.BatchesTotal.WithLabelValues(outcome).Inc()
	s.metrics.RecordsProcessed.Add(float64(processed))
	s.metrics.RecordsDropped.Add(float64(dropped))
	s.metrics.BatchDuration.Observe(d.Seconds())
}
