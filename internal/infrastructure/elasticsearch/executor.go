// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
	"github.com/searchcraft/aggs-builder-service/internal/domain/port"
	"github.com/searchcraft/aggs-builder-service/pkg/errors"
	"github.com/searchcraft/aggs-builder-service/pkg/global"
	"github.com/searchcraft/aggs-builder-service/pkg/paging"
)

// Executor implements the AggregationExecutor interface for Elasticsearch
type Executor struct {
	client SearchClient
	index  string
}

// SearchClient defines the interface for Elasticsearch operations
// This allows for easy mocking and testing
type SearchClient interface {
	Search(ctx context.Context, index string, body []byte) (*SearchResponse, error)
	IsHealthy(ctx context.Context) error
}

// Execute implements the AggregationExecutor interface
func (e *Executor) Execute(ctx context.Context, criteria model.RunCriteria) (*model.RunResult, error) {
	index := e.index
	if criteria.Index != "" {
		index = criteria.Index
	}

	slog.DebugContext(ctx, "executing elasticsearch aggregation run",
		"name", criteria.Name,
		"index", index,
	)

	body, err := e.buildSearchBody(criteria)
	if err != nil {
		return nil, err
	}

	response, err := e.client.Search(ctx, index, body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}

	return e.convertResponse(ctx, response, criteria.SampleSize)
}

// IsReady implements the AggregationExecutor interface
func (e *Executor) IsReady(ctx context.Context) error {
	return e.client.IsHealthy(ctx)
}

// buildSearchBody assembles the search request, mirroring the OpenSearch
// executor's envelope so either backend accepts the same criteria
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

// convertResponse converts an Elasticsearch response to the domain result
func (e *Executor) convertResponse(ctx context.Context, response *SearchResponse, size int) (*model.RunResult, error) {
	result := &model.RunResult{
		Aggregations: response.Aggregations,
		Hits:         make([]model.Hit, len(response.Hits.Hits)),
		Total:        response.Hits.Total.Value,
	}
	for i, hit := range response.Hits.Hits {
		result.Hits[i] = model.Hit{
			ID:     hit.ID,
			Score:  hit.Score,
			Source: hit.Source,
		}
	}

	if size > 0 && len(response.Hits.Hits) == size {
		secret, err := global.PageTokenSecret(ctx)
		if err != nil {
			return nil, err
		}
		searchAfter := response.Hits.Hits[len(response.Hits.Hits)-1].Sort
		pageToken, err := paging.EncodePageToken(searchAfter, secret)
		if err != nil {
			slog.ErrorContext(ctx, "failed to encode page token", "error", err)
			return nil, err
		}
		result.PageToken = &pageToken
	}

	return result, nil
}

// NewExecutor returns a new Elasticsearch-backed AggregationExecutor
func NewExecutor(config Config) (port.AggregationExecutor, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("elasticsearch URL is required")
	}
	if config.Index == "" {
		return nil, fmt.Errorf("elasticsearch index is required")
	}

	return &Executor{
		client: NewHTTPClient(config.URL, config.Username, config.Password),
		index:  config.Index,
	}, nil
}
