// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package opensearch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/searchcraft/aggs-builder-service/pkg/global"
	"github.com/searchcraft/aggs-builder-service/pkg/httpclient"
	"github.com/searchcraft/aggs-builder-service/pkg/paging"

	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

type searchClient struct {
	baseURL string
	probe   *httpclient.Client
	client  *opensearchapi.Client
}

func (c *searchClient) Search(ctx context.Context, index string, body []byte, size int) (*SearchResponse, error) {

	slog.DebugContext(ctx, "executing opensearch search",
		"index", index,
		"body", string(body),
	)

	searchRequest := opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    bytes.NewReader(body),
		Params: opensearchapi.SearchParams{
			Source: true,
		},
	}

	searchResponse, errSearchResponse := c.client.Search(ctx, &searchRequest)
	if errSearchResponse != nil {
		return nil, fmt.Errorf("failed to execute search: %w", errSearchResponse)
	}

	// Check for errors in the response
	if searchResponse.Errors {
		return nil, fmt.Errorf("opensearch search returned errors")
	}

	result := &SearchResponse{
		Hits: Hits{
			Total: Total{
				Value: searchResponse.Hits.Total.Value,
			},
			Hits: convertHits(searchResponse.Hits.Hits),
		},
		Aggregations: searchResponse.Aggregations,
	}

	// if the number of hits returned equals the sample size, there may be more results.
	if size > 0 && len(searchResponse.Hits.Hits) == size {
		secret, errSecret := global.PageTokenSecret(ctx)
		if errSecret != nil {
			return nil, errSecret
		}
		searchAfter := searchResponse.Hits.Hits[len(searchResponse.Hits.Hits)-1].Sort
		pageToken, errEncodePageToken := paging.EncodePageToken(searchAfter, secret)
		if errEncodePageToken != nil {
			slog.ErrorContext(ctx, "failed to encode page token", "error", errEncodePageToken)
			return nil, errEncodePageToken
		}
		result.PageToken = &pageToken
	}

	return result, nil
}

// convertHits maps SDK hits onto the package model, carrying the score through.
func convertHits(hits []opensearchapi.SearchHit) []Hit {
	converted := make([]Hit, len(hits))
	for i, hit := range hits {
		converted[i] = Hit{
			ID:     hit.ID,
			Score:  float64(hit.Score),
			Source: hit.Source,
		}
	}
	return converted
}

func (c *searchClient) Ping(ctx context.Context) error {
	response, err := c.probe.Request(ctx, http.MethodGet, c.baseURL, nil, nil)
	if err != nil {
		return fmt.Errorf("opensearch ping failed: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("opensearch ping returned status %d", response.StatusCode)
	}
	return nil
}
