package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/wildfire-dashboard/internal/domain"
)

// Client fetches the wildfire CSV from a URL or a local file.
// It implements pipeline.Extractor.
type Client struct {
	location   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a dataset client. location is an http(s) URL or a file path.
func NewClient(location string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		location: location,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Extract reads and decodes the whole dataset.
func (c *Client) Extract(ctx context.Context) ([]domain.RawRecord, error) {
	body, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	records, err := ParseCSV(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.location, err)
	}
	c.logger.Debug("dataset decoded", "source", c.location, "rows", len(records))
	return records, nil
}

func (c *Client) open(ctx context.Context) (io.ReadCloser, error) {
	if !isRemote(c.location) {
		f, err := os.Open(c.location)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.logger.Info("fetching dataset", "url", c.location)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch dataset: status %d: %s", resp.StatusCode, body)
	}
	return resp.Body, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
