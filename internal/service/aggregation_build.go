// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"

	"github.com/searchcraft/aggs-builder-service/internal/domain/aggregation"
	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
	"github.com/searchcraft/aggs-builder-service/pkg/errors"
)

// AggregationBuild handles pipeline aggregation build operations.
// The domain builders cannot fail on well-typed input (aside from the arity
// rule), so this layer's job is rejecting requests the type system cannot.
type AggregationBuild struct{}

// BuildAvgBucket validates the parameters and builds an avg_bucket document
func (s *AggregationBuild) BuildAvgBucket(ctx context.Context, params model.AvgBucketParams) (model.Document, error) {

	slog.DebugContext(ctx, "building avg_bucket aggregation",
		"bucket_path", params.BucketPath,
	)

	if params.BucketPath == "" {
		return nil, errors.NewValidation("bucket_path is required")
	}
	if err := s.validateGapPolicy(params.GapPolicy); err != nil {
		return nil, err
	}

	return aggregation.AvgBucket(params.BucketPath, params.GapPolicy, params.Format), nil
}

// BuildBucketScript validates the parameters and builds a bucket_script
// document. An arity mismatch between the variable and parameter sequences
// propagates as *aggregation.ArityMismatchError.
func (s *AggregationBuild) BuildBucketScript(ctx context.Context, params model.BucketScriptParams) (model.Document, error) {

	slog.DebugContext(ctx, "building bucket_script aggregation",
		"script", params.Script,
		"bucket_path_vars", len(params.BucketPathVars),
		"bucket_path_params", len(params.BucketPathParams),
	)

	if params.Script == "" {
		return nil, errors.NewValidation("script is required")
	}
	if err := s.validateGapPolicy(params.GapPolicy); err != nil {
		return nil, err
	}

	document, err := aggregation.BucketScript(
		params.Script,
		params.BucketPathVars,
		params.BucketPathParams,
		params.GapPolicy,
		params.Format,
	)
	if err != nil {
		slog.With("error", err).ErrorContext(ctx, "bucket_script build failed")
		return nil, err
	}

	return document, nil
}

// validateGapPolicy rejects a supplied gap policy outside the two-value vocabulary
func (s *AggregationBuild) validateGapPolicy(policy *model.GapPolicy) error {
	if policy != nil && !policy.Valid() {
		return errors.NewValidation("unknown gap policy")
	}
	return nil
}

// NewAggregationBuild creates a new AggregationBuild service
func NewAggregationBuild() *AggregationBuild {
	return &AggregationBuild{}
}
