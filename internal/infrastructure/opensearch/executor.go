// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
	"github.com/searchcraft/aggs-builder-service/internal/domain/port"
	"github.com/searchcraft/aggs-builder-service/pkg/errors"
	"github.com/searchcraft/aggs-builder-service/pkg/httpclient"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Executor implements the AggregationExecutor interface for OpenSearch
type Executor struct {
	client SearchClientRetriever
	index  string
}

// SearchClientRetriever defines the interface for OpenSearch operations
// This allows for easy mocking and testing
type SearchClientRetriever interface {
	Search(ctx context.Context, index string, body []byte, size int) (*SearchResponse, error)
	Ping(ctx context.Context) error
}

// Execute implements the AggregationExecutor interface
func (e *Executor) Execute(ctx context.Context, criteria model.RunCriteria) (*model.RunResult, error) {
	index := e.index
	if criteria.Index != "" {
		index = criteria.Index
	}

	slog.DebugContext(ctx, "executing opensearch aggregation run",
		"name", criteria.Name,
		"index", index,
	)

	body, err := e.buildSearchBody(criteria)
	if err != nil {
		return nil, err
	}

	response, err := e.client.Search(ctx, index, body, criteria.SampleSize)
	if err != nil {
		return nil, fmt.Errorf("opensearch search failed: %w", err)
	}

	result := e.convertResponse(response)

	slog.DebugContext(ctx, "opensearch aggregation run completed",
		"name", criteria.Name,
		"total", result.Total,
	)
	return result, nil
}

// IsReady implements the AggregationExecutor interface
func (e *Executor) IsReady(ctx context.Context) error {
	return e.client.Ping(ctx)
}

// buildSearchBody assembles the search request: the pipeline document joins
// the caller's sibling aggregations under its registered name, hits are
// sorted by _id so search_after pagination is stable
func (e *Executor) buildSearchBody(criteria model.RunCriteria) ([]byte, error) {
	aggs := make(map[string]any)
	if len(criteria.Siblings) > 0 {
		if err := json.Unmarshal(criteria.Siblings, &aggs); err != nil {
			return nil, errors.NewValidation("invalid sibling aggregations", err)
		}
	}
	aggs[criteria.Name] = criteria.Pipeline

	body := map[string]any{
		"size": criteria.SampleSize,
		"aggs": aggs,
		"sort": []any{map[string]string{"_id": "asc"}},
	}
	if len(criteria.Query) > 0 {
		body["query"] = json.RawMessage(criteria.Query)
	}
	if criteria.SearchAfter != nil && *criteria.SearchAfter != "" {
		body["search_after"] = json.RawMessage(*criteria.SearchAfter)
	}

	serialized, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewUnexpected("failed to marshal search body", err)
	}
	return serialized, nil
}

// convertResponse converts an OpenSearch response to the domain result
func (e *Executor) convertResponse(response *SearchResponse) *model.RunResult {
	result := &model.RunResult{
		Aggregations: response.Aggregations,
		Hits:         make([]model.Hit, len(response.Hits.Hits)),
		Total:        response.Total.Value,
		PageToken:    response.PageToken,
	}
	for i, hit := range response.Hits.Hits {
		result.Hits[i] = model.Hit{
			ID:     hit.ID,
			Score:  hit.Score,
			Source: hit.Source,
		}
	}
	return result
}

// NewExecutor returns a new OpenSearch-backed AggregationExecutor
func NewExecutor(ctx context.Context, config Config) (port.AggregationExecutor, error) {

	if config.URL == "" {
		slog.ErrorContext(ctx, "opensearch URL is required")
		return nil, fmt.Errorf("opensearch URL is required")
	}
	if config.Index == "" {
		slog.ErrorContext(ctx, "opensearch index is required")
		return nil, fmt.Errorf("opensearch index is required")
	}

	opensearchClient, errOpensearchClient := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses: []string{config.URL},
			Transport: &http.Transport{
				MaxIdleConnsPerHost:   10,
				ResponseHeaderTimeout: time.Second,
				DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
			},
		},
	})
	if errOpensearchClient != nil {
		slog.ErrorContext(ctx, "failed to create OpenSearch client", "error", errOpensearchClient)
		return nil, fmt.Errorf("failed to create OpenSearch client: %w", errOpensearchClient)
	}

	return &Executor{
		client: &searchClient{
			baseURL: config.URL,
			probe:   httpclient.NewClient(httpclient.DefaultConfig()),
			client:  opensearchClient,
		},
		index: config.Index,
	}, nil
}
