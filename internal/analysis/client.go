// Package analysis provides analyzer implementations: an HTTP client for an
// external AI service and an offline rule-based stub.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aivolabs/aivo/internal/model"
)

const defaultTimeout = 30 * time.Second

// Client posts campaign data to an external analyzer endpoint and returns the
// generated summary.
type Client struct {
	url  string
	http *http.Client
}

// NewClient constructs a Client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: defaultTimeout},
	}
}

type analyzeRequest struct {
	Offer      *model.Offer      `json:"offer"`
	Metrics    *model.Metrics    `json:"metrics,omitempty"`
	Benchmarks []model.Benchmark `json:"benchmarks,omitempty"`
}

type analyzeResponse struct {
	Summary string `json:"summary"`
}

// Analyze sends the offer with its metrics and matching benchmarks and returns
// the analyzer's summary.
func (c *Client) Analyze(ctx context.Context, offer *model.Offer, metrics *model.Metrics, benchmarks []model.Benchmark) (string, error) {
	body, err := json.Marshal(analyzeRequest{Offer: offer, Metrics: metrics, Benchmarks: benchmarks})
	if err != nil {
		return "", fmt.Errorf("encode analyze request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var out analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode analyzer response: %w", err)
	}
	if out.Summary == "" {
		return "", fmt.Errorf("analyzer returned empty summary")
	}
	return out.Summary, nil
}
