package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/usgs-station-import/internal/domain"
	"github.com/couchcryptid/usgs-station-import/internal/observability"
)

// Client fetches the USGS station list. It implements pipeline.Extractor.
type Client struct {
	httpClient *http.Client
	url        string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a station list client. A zero timeout leaves the
// request unbounded, matching http.Client's default.
func NewClient(url string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		url:     url,
		logger:  logger,
		metrics: metrics,
	}
}

// Extract issues a single GET for the station list and returns its rows as a
// stream. The caller must Close the stream.
func (c *Client) Extract(ctx context.Context) (domain.RowStream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.logger.Info("fetching station list", "url", c.url)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("station list request: %w", err)
	}
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("usgs API error: status %d: %s", resp.StatusCode, body)
	}

	c.logger.Debug("station list response", "status", resp.StatusCode, "content_type", resp.Header.Get("Content-Type"))
	return NewRows(resp.Body), nil
}
