package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"transformd/pkg/contracts/domain"
)

// Version stamped on every record leaving the pipeline.
const Version = "2.0.0"

// Result is the outcome of one pipeline run.
type Result struct {
	Records []domain.EnrichedRecord
	Dropped int
}

// Pipeline runs the full transform over a batch of raw rows. Stateless; one
// instance serves concurrent requests.
type Pipeline struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// New creates a pipeline. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger: logger.With(slog.String("component", "pipeline")),
		tracer: otel.Tracer("transformd.pipeline"),
	}
}

// Transform executes the phases in order: validation, basic metrics, the
// per-ticker windowed and risk stages (parallel across tickers), the global
// cross-sectional stage, then sanitization and stamping. Either every
// surviving record is fully processed or an error is returned; there are no
// partial results.
func (p *Pipeline) Transform(ctx context.Context, raw []json.RawMessage, cfg domain.BatchConfig) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.transform",
		trace.WithAttributes(attribute.Int("batch.raw_count", len(raw))))
	defer span.End()

	records, dropped, err := Clean(raw, cfg.MaxBatchSize)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoValidRecords
	}

	ComputeBasics(records)

	series := groupByTicker(records)

	if cfg.EnableTechnicalIndicators || cfg.EnableRiskMetrics {
		_, tickerSpan := p.tracer.Start(ctx, "pipeline.ticker_stage",
			trace.WithAttributes(attribute.Int("batch.tickers", len(series))))
		g, gctx := errgroup.WithContext(ctx)
		for _, s := range series {
			s := s
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				if cfg.EnableTechnicalIndicators {
					ComputeIndicators(s, cfg)
				}
				if cfg.EnableRiskMetrics {
					ComputeRisk(s)
				}
				return nil
			})
		}
		err := g.Wait()
		tickerSpan.End()
		if err != nil {
			return nil, err
		}
	}

	if cfg.EnableSectorAnalysis {
		_, sectorSpan := p.tracer.Start(ctx, "pipeline.sector_stage")
		ComputeSectorAnalysis(records)
		sectorSpan.End()
	}

	Sanitize(records)

	stamp := time.Now().UTC().Format(time.RFC3339)
	for i := range records {
		records[i].TransformationTimestamp = stamp
		records[i].TransformationVersion = Version
	}

	p.logger.InfoContext(ctx, "batch transformed",
		slog.Int("raw", len(raw)),
		slog.Int("cleaned", len(records)),
		slog.Int("dropped", dropped),
		slog.Int("tickers", len(series)))

	return &Result{Records: records, Dropped: dropped}, nil
}

// groupByTicker partitions records into per-ticker series sorted by date.
// The returned slices hold pointers into the input, so the per-ticker stages
// write straight into the batch.
func groupByTicker(records []domain.EnrichedRecord) map[string][]*domain.EnrichedRecord {
	series := make(map[string][]*domain.EnrichedRecord)
	for i := range records {
		r := &records[i]
		series[r.Ticker] = append(series[r.Ticker], r)
	}
	for _, s := range series {
		sort.SliceStable(s, func(i, j int) bool { return s[i].Date < s[j].Date })
	}
	return series
}
