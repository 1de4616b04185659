// Package extract is the HTTP client for the extract-service collaborator,
// which fetches raw OHLCV history per ticker. The transform service never
// retries the collaborator; failures surface as ErrUpstreamUnavailable for
// the handler to map to a 502.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ErrUpstreamUnavailable marks any failure talking to the extract service:
// transport errors, non-200 responses, or an undecodable body.
var ErrUpstreamUnavailable = errors.New("extract service unavailable")

// Batch is the flattened result of a multi-ticker fetch. Records preserves
// ticker order (sorted) so the same request always produces the same row
// ordering.
type Batch struct {
	BatchID string
	Tickers []string
	Records []json.RawMessage
}

// extractManyResponse mirrors the extract service's /extract_many payload.
// A ticker that failed upstream carries an error object instead of a row
// list, so values stay raw until FetchMany inspects them.
type extractManyResponse struct {
	BatchID string                     `json:"batch_id"`
	Data    map[string]json.RawMessage `json:"data"`
}

// Client calls the extract service.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client with a bounded request timeout. A nil logger
// falls back to slog.Default.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(slog.String("component", "extract_client")),
	}
}

// FetchMany requests period history for each ticker from the extract service
// at baseURL and flattens the per-ticker map into a single ordered row list.
func (c *Client) FetchMany(ctx context.Context, baseURL string, tickers []string, period string) (*Batch, error) {
	endpoint, err := buildURL(baseURL, tickers, period)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		detail := strings.TrimSpace(string(body))
		if detail == "" {
			detail = resp.Status
		}
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstreamUnavailable, resp.StatusCode, detail)
	}

	var payload extractManyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstreamUnavailable, err)
	}
	if payload.Data == nil {
		return nil, fmt.Errorf("%w: response missing data field", ErrUpstreamUnavailable)
	}

	batch := &Batch{BatchID: payload.BatchID}
	keys := make([]string, 0, len(payload.Data))
	for k := range payload.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		// Failed tickers carry an error object; only row lists flatten.
		var rows []json.RawMessage
		if err := json.Unmarshal(payload.Data[k], &rows); err != nil {
			c.logger.WarnContext(ctx, "skipping ticker without row data",
				slog.String("ticker", k))
			continue
		}
		batch.Tickers = append(batch.Tickers, k)
		batch.Records = append(batch.Records, rows...)
	}

	c.logger.InfoContext(ctx, "fetched extract batch",
		slog.String("batch_id", batch.BatchID),
		slog.Int("tickers", len(batch.Tickers)),
		slog.Int("rows", len(batch.Records)),
		slog.Duration("duration", time.Since(start)))

	return batch, nil
}

func buildURL(baseURL string, tickers []string, period string) (string, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", err
	}
	base.Path += "/extract_many"
	q := base.Query()
	// The extract service takes one comma-separated ticker parameter, not a
	// repeated one.
	q.Set("ticker", strings.Join(tickers, ","))
	q.Set("period", period)
	base.RawQuery = q.Encode()
	return base.String(), nil
}
