// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/searchcraft/aggs-builder-service/pkg/httpclient"
)

// Config represents Elasticsearch configuration
type Config struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Index    string `json:"index"`
}

// SearchResponse represents the Elasticsearch search response
type SearchResponse struct {
	Hits         Hits            `json:"hits"`
	Aggregations json.RawMessage `json:"aggregations"`
}

// Hits represents the hits in the search response
type Hits struct {
	Total Total `json:"total"`
	Hits  []Hit `json:"hits"`
}

// Total represents the total number of hits
type Total struct {
	Value int `json:"value"`
}

// Hit represents a single search result hit
type Hit struct {
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
	Sort   []any           `json:"sort"`
}

// HTTPClient implements the SearchClient interface over plain HTTP
type HTTPClient struct {
	baseURL string
	headers map[string]string
	client  *httpclient.Client
}

// NewHTTPClient creates a new HTTP client for Elasticsearch
func NewHTTPClient(baseURL, username, password string) *HTTPClient {
	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers["Authorization"] = "Basic " + credentials
	}

	return &HTTPClient{
		baseURL: baseURL,
		headers: headers,
		client:  httpclient.NewClient(httpclient.DefaultConfig()),
	}
}

// Search executes a search request against Elasticsearch
func (c *HTTPClient) Search(ctx context.Context, index string, body []byte) (*SearchResponse, error) {
	url := fmt.Sprintf("%s/%s/_search", c.baseURL, index)

	slog.DebugContext(ctx, "executing elasticsearch search", "index", index)

	response, err := c.client.Request(ctx, http.MethodPost, url, body, c.headers)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	var searchResponse SearchResponse
	if err := json.Unmarshal(response.Body, &searchResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return &searchResponse, nil
}

// IsHealthy checks if the Elasticsearch cluster can serve requests
func (c *HTTPClient) IsHealthy(ctx context.Context) error {
	url := fmt.Sprintf("%s/_cluster/health", c.baseURL)

	response, err := c.client.Request(ctx, http.MethodGet, url, nil, c.headers)
	if err != nil {
		return fmt.Errorf("elasticsearch health check failed: %w", err)
	}

	var healthResponse struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(response.Body, &healthResponse); err != nil {
		return fmt.Errorf("failed to unmarshal health check response: %w", err)
	}

	if healthResponse.Status != "green" && healthResponse.Status != "yellow" {
		return fmt.Errorf("elasticsearch cluster status is %s", healthResponse.Status)
	}

	return nil
}
