package errors

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandler() *ErrorHandler {
	return NewErrorHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), false)
}

func handleAndDecode(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	h := testHandler()
	req := httptest.NewRequest(http.MethodPost, "/api/transform", nil)
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHandleErrorAPIError(t *testing.T) {
	code, body := handleAndDecode(t, ErrNoValidRecords)

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "/errors/transform/no-valid-records", body["type"])
	assert.Equal(t, "NO_VALID_RECORDS", body["error_code"])
	assert.Equal(t, "No valid records after cleaning", body["detail"])
	assert.Equal(t, "/api/transform", body["instance"])
}

func TestHandleErrorMapsCodesToTypes(t *testing.T) {
	tests := []struct {
		err      *APIError
		wantCode int
		wantType string
	}{
		{ErrMissingRawData, http.StatusBadRequest, "/errors/validation"},
		{ErrValidationFailed, http.StatusBadRequest, "/errors/validation"},
		{ErrBatchTooLarge, http.StatusRequestEntityTooLarge, "/errors/transform/batch-too-large"},
		{ErrUpstreamUnavailable, http.StatusBadGateway, "/errors/extract/unavailable"},
		{ErrNotFound, http.StatusNotFound, "/errors/not-found"},
		{ErrRateLimitExceeded, http.StatusTooManyRequests, "/errors/rate-limit"},
		{ErrServiceUnavailable, http.StatusServiceUnavailable, "/errors/service-unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.err.ErrorCode, func(t *testing.T) {
			code, body := handleAndDecode(t, tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantType, body["type"])
		})
	}
}

func TestHandleErrorUnknownErrorIs500(t *testing.T) {
	code, body := handleAndDecode(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "/errors/internal", body["type"])
	// Internal details never leak to the caller.
	assert.NotContains(t, body["detail"], "boom")
}

func TestHandleErrorContextDeadline(t *testing.T) {
	code, body := handleAndDecode(t, context.DeadlineExceeded)

	assert.Equal(t, http.StatusGatewayTimeout, code)
	assert.Equal(t, "/errors/timeout", body["type"])
}

func TestHandleErrorWrappedAPIError(t *testing.T) {
	wrapped := &wrapError{inner: ErrBatchTooLarge}

	code, body := handleAndDecode(t, wrapped)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, "BATCH_TOO_LARGE", body["error_code"])
}

type wrapError struct{ inner error }

func (w *wrapError) Error() string { return "wrapped: " + w.inner.Error() }
func (w *wrapError) Unwrap() error { return w.inner }

func TestHandleErrorIncludesDetails(t *testing.T) {
	code, body := handleAndDecode(t, BatchTooLargeError(20000, 10000))

	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	details, ok := body["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(20000), details["size"])
	assert.Equal(t, float64(10000), details["limit"])
}

func TestNotFoundHandler(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/errors/not-found", body["type"])
}

func TestMethodNotAllowedHandler(t *testing.T) {
	h := testHandler()
	req := httptest.NewRequest(http.MethodDelete, "/api/transform", nil)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	h := testHandler()
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/transform", nil)
	rec := httptest.NewRecorder()
	RecoveryMiddleware(h)(panicking).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/errors/internal", body["type"])
}

func TestProblemDetailsMarshalIncludesExtensions(t *testing.T) {
	problem := NewProblemDetails(400, "/errors/validation", "Bad Request", "bad", "/x").
		WithExtension("error_code", "VALIDATION_FAILED")

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.Equal(t, float64(400), body["status"])
}
