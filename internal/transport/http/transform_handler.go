package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "transformd/internal/errors"
	"transformd/internal/extract"
	custommw "transformd/internal/middleware"
	"transformd/internal/pipeline"
	"transformd/pkg/contracts/domain"
)

// TransformRequest is the body of POST /api/transform. RawData stays opaque
// here; the pipeline's validator decides row by row what survives.
type TransformRequest struct {
	RawData []json.RawMessage        `json:"raw_data"`
	Config  *domain.BatchConfigPatch `json:"config"`
}

// TickerList accepts the batch route's two wire forms for tickers: a JSON
// array of symbols, or the comma-separated string the extract service itself
// takes ("AAPL,MSFT").
type TickerList []string

func (t *TickerList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = splitTickers(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = TickerList(list)
	return nil
}

func splitTickers(s string) TickerList {
	parts := strings.Split(s, ",")
	out := make(TickerList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// BatchTransformRequest is the body of POST /api/transform/batch.
type BatchTransformRequest struct {
	Tickers           TickerList               `json:"tickers" validate:"required,min=1,dive,required"`
	Period            string                   `json:"period" validate:"omitempty,oneof=1d 5d 1mo 3mo 6mo 1y 5y"`
	ExtractServiceURL string                   `json:"extract_service_url" validate:"omitempty,url"`
	Config            *domain.BatchConfigPatch `json:"config"`
}

// TransformResponse is the success envelope shared by both transform routes.
type TransformResponse struct {
	Success          bool                    `json:"success"`
	BatchID          string                  `json:"batch_id,omitempty"`
	TickersRequested []string                `json:"tickers_requested,omitempty"`
	RecordsProcessed int                     `json:"records_processed"`
	RecordsCleaned   int                     `json:"records_cleaned"`
	Data             []domain.EnrichedRecord `json:"data"`
	Timestamp        string                  `json:"timestamp"`
}

// TransformHandler handles transform HTTP requests with RFC 7807 compliance
type TransformHandler struct {
	service      TransformServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewTransformHandler creates a new transform handler with RFC 7807 error handling
func NewTransformHandler(service TransformServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TransformHandler {
	return &TransformHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "transform_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the transform routes
func (h *TransformHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.Transform)
	r.Post("/batch", h.TransformBatch)
	r.Get("/config", h.GetConfig)

	return r
}

// Transform handles POST /api/transform
func (h *TransformHandler) Transform(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetRequestID(r.Context())

	var req TransformRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if req.RawData == nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingRawData)
		return
	}
	// A bad window override must fail here, not deep inside the pipeline.
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationProblem(err))
		return
	}

	h.logger.InfoContext(r.Context(), "transforming batch",
		slog.String("request_id", reqID),
		slog.Int("raw_records", len(req.RawData)))

	result, err := h.service.Transform(r.Context(), req.RawData, req.Config)
	if err != nil {
		h.handleTransformError(w, r, err, reqID)
		return
	}

	render.JSON(w, r, TransformResponse{
		Success:          true,
		RecordsProcessed: result.RecordsProcessed,
		RecordsCleaned:   result.RecordsCleaned,
		Data:             result.Records,
		Timestamp:        result.Timestamp.Format(time.RFC3339),
	})
}

// TransformBatch handles POST /api/transform/batch
func (h *TransformHandler) TransformBatch(w http.ResponseWriter, r *http.Request) {
	reqID := custommw.GetRequestID(r.Context())

	var req BatchTransformRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		h.errorHandler.HandleError(w, r, validationProblem(err))
		return
	}
	if req.Period == "" {
		req.Period = "1mo"
	}

	h.logger.InfoContext(r.Context(), "transforming extract batch",
		slog.String("request_id", reqID),
		slog.Int("tickers", len(req.Tickers)),
		slog.String("period", req.Period))

	result, err := h.service.TransformBatch(r.Context(), []string(req.Tickers), req.Period, req.ExtractServiceURL, req.Config)
	if err != nil {
		h.handleTransformError(w, r, err, reqID)
		return
	}

	render.JSON(w, r, TransformResponse{
		Success:          true,
		BatchID:          result.BatchID,
		TickersRequested: result.TickersRequested,
		RecordsProcessed: result.RecordsProcessed,
		RecordsCleaned:   result.RecordsCleaned,
		Data:             result.Records,
		Timestamp:        result.Timestamp.Format(time.RFC3339),
	})
}

// GetConfig handles GET /api/transform/config
func (h *TransformHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Config(r.Context()))
}

// handleTransformError maps pipeline and extract sentinels to API errors
func (h *TransformHandler) handleTransformError(w http.ResponseWriter, r *http.Request, err error, reqID string) {
	h.logger.ErrorContext(r.Context(), "transform failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID))

	switch {
	case errors.Is(err, pipeline.ErrNoValidRecords):
		h.errorHandler.HandleError(w, r, apierrors.ErrNoValidRecords)
	case errors.Is(err, pipeline.ErrBatchTooLarge):
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusRequestEntityTooLarge,
			"BATCH_TOO_LARGE",
			"Batch exceeds maximum size",
			err.Error(),
		))
	case errors.Is(err, extract.ErrUpstreamUnavailable):
		h.errorHandler.HandleError(w, r, apierrors.UpstreamError(err))
	default:
		h.errorHandler.HandleError(w, r, err)
	}
}

// validationProblem converts validator.v10 errors to field-level details
func validationProblem(err error) *apierrors.APIError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apierrors.NewValidationError(err.Error())
	}
	fields := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: fe.Tag(),
		})
	}
	return apierrors.NewValidationErrors(fields)
}
