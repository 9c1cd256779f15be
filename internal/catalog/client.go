package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
)

// Client fetches the catalog from the HTTP API.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client whose requests time out after timeout.
func NewClient(logger *zap.Logger, timeout time.Duration) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Fetch performs a single GET against url and decodes the catalog payload.
func (c *Client) Fetch(ctx context.Context, url string) (*ApiResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("catalog API returned %s: %s", resp.Status, string(body))
	}

	payload, err := decode(resp.Body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("catalog fetched",
		zap.String("op", "catalog.Fetch"),
		zap.String("url", url),
		zap.Int("products", len(payload.Products)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return payload, nil
}

// LoadFile reads a catalog payload from a JSON file.
func LoadFile(path string) (*ApiResponse, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()
	return decode(f)
}

func decode(r io.Reader) (*ApiResponse, error) {
	var payload ApiResponse
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode catalog payload: %w", err)
	}
	return &payload, nil
}
