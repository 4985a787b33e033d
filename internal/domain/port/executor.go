// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package port

import (
	"context"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
)

// AggregationExecutor defines the behavior for running a built aggregation
// against a search backend. This abstraction allows different backend
// implementations (OpenSearch, Elasticsearch, mock) without the domain layer
// knowing about specific implementations.
type AggregationExecutor interface {
	// Execute runs the aggregation described by the criteria and returns
	// the engine's results
	Execute(ctx context.Context, criteria model.RunCriteria) (*model.RunResult, error)

	// IsReady checks if the search backend is reachable
	IsReady(ctx context.Context) error
}
