// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
	"github.com/searchcraft/aggs-builder-service/internal/domain/port"
	"github.com/searchcraft/aggs-builder-service/pkg/constants"
	"github.com/searchcraft/aggs-builder-service/pkg/errors"
	"github.com/searchcraft/aggs-builder-service/pkg/global"
	"github.com/searchcraft/aggs-builder-service/pkg/paging"
)

// AggregationRun runs built pipeline aggregations against the search backend.
// It depends on abstractions (interfaces) rather than concrete implementations.
type AggregationRun struct {
	executor port.AggregationExecutor
}

// Run validates the criteria and delegates execution to the backend
func (s *AggregationRun) Run(ctx context.Context, criteria model.RunCriteria) (*model.RunResult, error) {

	slog.DebugContext(ctx, "starting aggregation run",
		"name", criteria.Name,
		"sample_size", criteria.SampleSize,
	)

	if err := s.validateRunCriteria(criteria); err != nil {
		slog.With("error", err).ErrorContext(ctx, "run criteria validation failed")
		return nil, err
	}

	// Grab the principal which was stored into the context by the auth middleware.
	principal, ok := ctx.Value(constants.PrincipalContextID).(string)
	if !ok || principal == "" || principal == constants.AnonymousPrincipal {
		return nil, errors.NewUnauthorized("an authenticated principal is required to run aggregations")
	}

	if criteria.SampleSize <= 0 {
		criteria.SampleSize = constants.DefaultSampleSize
	}
	if criteria.SampleSize > constants.MaxSampleSize {
		criteria.SampleSize = constants.MaxSampleSize
	}

	if criteria.PageToken != nil && *criteria.PageToken != "" {
		secret, err := global.PageTokenSecret(ctx)
		if err != nil {
			return nil, errors.NewServiceUnavailable("page token secret is not configured", err)
		}
		searchAfter, err := paging.DecodePageToken(ctx, *criteria.PageToken, secret)
		if err != nil {
			return nil, err
		}
		criteria.SearchAfter = &searchAfter
	}

	result, err := s.executor.Execute(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("aggregation run failed: %w", err)
	}

	slog.DebugContext(ctx, "aggregation run completed",
		"name", criteria.Name,
		"total", result.Total,
		"hits", len(result.Hits),
	)

	return result, nil
}

// Ready reports whether the search backend can serve runs
func (s *AggregationRun) Ready(ctx context.Context) error {
	if err := s.executor.IsReady(ctx); err != nil {
		return errors.NewServiceUnavailable("search backend is not ready", err)
	}
	return nil
}

// validateRunCriteria validates the run criteria according to business rules
func (s *AggregationRun) validateRunCriteria(criteria model.RunCriteria) error {
	if criteria.Name == "" {
		return errors.NewValidation("aggregation name is required")
	}
	if len(criteria.Pipeline) == 0 {
		return errors.NewValidation("a built pipeline document is required")
	}
	return nil
}

// NewAggregationRun creates a new AggregationRun service with the given executor
func NewAggregationRun(executor port.AggregationExecutor) *AggregationRun {
	return &AggregationRun{
		executor: executor,
	}
}
