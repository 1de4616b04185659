package http

import (
	"context"
	"encoding/json"

	"transformd/internal/services"
	"transformd/pkg/contracts/domain"
)

// TransformServiceInterface defines the contract the transform handler needs.
// Kept as an interface so handler tests can substitute a mock.
type TransformServiceInterface interface {
	Transform(ctx context.Context, raw []json.RawMessage, patch *domain.BatchConfigPatch) (*services.TransformResult, error)
	TransformBatch(ctx context.Context, tickers []string, period, extractURL string, patch *domain.BatchConfigPatch) (*services.BatchResult, error)
	Config(ctx context.Context) services.ConfigView
}
