// Package opgg is a thin client for the op.gg internal API, covering the
// lookups the chat handlers need: summoner search, recent games, live
// spectate status and ranked history.
package opgg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the op.gg internal API root.
const DefaultBaseURL = "https://op.gg/api/v1.0/internal/bypass"

// Region is an op.gg region shard.
type Region string

const (
	RegionBr   Region = "br"
	RegionEune Region = "eune"
	RegionEuw  Region = "euw"
	RegionJp   Region = "jp"
	RegionKr   Region = "kr"
	RegionLan  Region = "lan"
	RegionLas  Region = "las"
	RegionNa   Region = "na"
	RegionOce  Region = "oce"
	RegionPh   Region = "ph"
	RegionRu   Region = "ru"
	RegionSg   Region = "sg"
	RegionTh   Region = "th"
	RegionTr   Region = "tr"
	RegionTw   Region = "tw"
	RegionVn   Region = "vn"
)

// TierInfo is a ranked standing. Tier, Division and LP are nil for unranked
// summoners.
type TierInfo struct {
	Tier     *string `json:"tier"`
	Division *int64  `json:"division"`
	LP       *int64  `json:"lp"`
}

// Client calls the op.gg API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. An empty baseURL selects the public API root.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With("component", "opgg"),
	}
}

// getJSON performs a GET request and decodes the JSON response into out. A
// non-2xx status is reported with a snippet of the body for diagnosis.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.WarnContext(ctx, "Error closing response body", "path", path, "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request to %s returned status %d: %s", path, resp.StatusCode, snippet)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}
