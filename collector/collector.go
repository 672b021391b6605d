package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Collector is the contract any source of an exposition body must
// satisfy.
type Collector interface {
	// Collect returns the full text body. An error is reported to the
	// user as-is, so it should already read well on its own.
	Collect(ctx context.Context) (string, error)
}

// textFormat asks exporters for the plain text format instead of
// protobuf or OpenMetrics.
const textFormat = "text/plain;version=0.0.4;q=1,*/*;q=0.1"

// maxErrorBody caps how much of a non-2xx response ends up in an error.
const maxErrorBody = 512

// HTTPCollector implements Collector by scraping an exporter's metrics
// endpoint with a single GET. It never retries.
type HTTPCollector struct {
	URL       string       // e.g. "http://localhost:8091/metrics"
	HTTP      *http.Client // injected for testability (nil -> default client)
	Log       *zap.Logger
	UserAgent string // optional
}

// NewHTTPCollector returns a ready-to-use collector with the given
// request timeout.
func NewHTTPCollector(url string, timeout time.Duration, log *zap.Logger) *HTTPCollector {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPCollector{
		URL:       url,
		HTTP:      &http.Client{Timeout: timeout},
		Log:       log,
		UserAgent: "promcheck/0.1",
	}
}

// Collect implements the Collector interface.
func (h *HTTPCollector) Collect(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return "", fmt.Errorf("invalid exporter url: %w", err)
	}
	req.Header.Set("Accept", textFormat)
	if h.UserAgent != "" {
		req.Header.Set("User-Agent", h.UserAgent)
	}

	client := h.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("exporter request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("exporter returned %d: %s", resp.StatusCode, string(b))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read exporter body: %w", err)
	}
	h.log().Debug("scraped exporter",
		zap.String("url", h.URL),
		zap.Int("bytes", len(body)),
		zap.Duration("took", time.Since(start)))
	return string(body), nil
}

func (h *HTTPCollector) log() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
