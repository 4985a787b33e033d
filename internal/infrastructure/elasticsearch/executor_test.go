// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package elasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/searchcraft/aggs-builder-service/internal/domain/aggregation"
	"github.com/searchcraft/aggs-builder-service/internal/domain/model"

	"github.com/stretchr/testify/assert"
)

// fakeSearchClient implements SearchClient for testing
type fakeSearchClient struct {
	response  *SearchResponse
	err       error
	healthErr error

	lastIndex string
	lastBody  []byte
}

func (f *fakeSearchClient) Search(_ context.Context, index string, body []byte) (*SearchResponse, error) {
	f.lastIndex = index
	f.lastBody = body
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeSearchClient) IsHealthy(_ context.Context) error {
	return f.healthErr
}

func TestExecutorExecute(t *testing.T) {
	assertion := assert.New(t)

	client := &fakeSearchClient{
		response: &SearchResponse{
			Hits: Hits{
				Total: Total{Value: 7},
				Hits: []Hit{
					{ID: "doc-1", Score: 1.5, Source: json.RawMessage(`{"amount": 12}`)},
				},
			},
			Aggregations: json.RawMessage(`{"avg_price": {"value": 12.0}}`),
		},
	}
	executor := &Executor{client: client, index: "sales"}

	result, err := executor.Execute(context.Background(), model.RunCriteria{
		Name:       "avg_price",
		Pipeline:   aggregation.AvgBucket("per_month>price", nil, nil),
		SampleSize: 10,
	})
	assertion.NoError(err)
	assertion.Equal("sales", client.lastIndex)

	assertion.Equal(7, result.Total)
	assertion.Len(result.Hits, 1)
	assertion.Equal(1.5, result.Hits[0].Score)
	assertion.Nil(result.PageToken)
	assertion.JSONEq(`{"avg_price": {"value": 12.0}}`, string(result.Aggregations))

	// the envelope contains the pipeline under its registered name
	var body map[string]any
	assertion.NoError(json.Unmarshal(client.lastBody, &body))
	aggs := body["aggs"].(map[string]any)
	assertion.Contains(aggs, "avg_price")
}

func TestExecutorExecutePageToken(t *testing.T) {
	assertion := assert.New(t)
	t.Setenv("PAGE_TOKEN_SECRET", "elasticsearch-executor-secret!!")

	client := &fakeSearchClient{
		response: &SearchResponse{
			Hits: Hits{
				Total: Total{Value: 100},
				Hits: []Hit{
					{ID: "doc-1", Source: json.RawMessage(`{}`), Sort: []any{"a", "doc-1"}},
					{ID: "doc-2", Source: json.RawMessage(`{}`), Sort: []any{"b", "doc-2"}},
				},
			},
		},
	}
	executor := &Executor{client: client, index: "sales"}

	result, err := executor.Execute(context.Background(), model.RunCriteria{
		Name:       "avg_price",
		Pipeline:   aggregation.AvgBucket("per_month>price", nil, nil),
		SampleSize: 2,
	})
	assertion.NoError(err)

	// a full page of hits yields a next-page token
	assertion.NotNil(result.PageToken)
	assertion.NotEmpty(*result.PageToken)
}

func TestExecutorExecuteClientError(t *testing.T) {
	assertion := assert.New(t)

	client := &fakeSearchClient{err: errors.New("connection refused")}
	executor := &Executor{client: client, index: "sales"}

	result, err := executor.Execute(context.Background(), model.RunCriteria{
		Name:     "avg_price",
		Pipeline: aggregation.AvgBucket("per_month>price", nil, nil),
	})
	assertion.Error(err)
	assertion.Nil(result)
}

func TestExecutorIsReady(t *testing.T) {
	assertion := assert.New(t)

	client := &fakeSearchClient{}
	executor := &Executor{client: client, index: "sales"}
	assertion.NoError(executor.IsReady(context.Background()))

	client.healthErr = errors.New("cluster status is red")
	assertion.Error(executor.IsReady(context.Background()))
}
