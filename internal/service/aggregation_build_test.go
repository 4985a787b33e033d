// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/searchcraft/aggs-builder-service/internal/domain/aggregation"
	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
	errs "github.com/searchcraft/aggs-builder-service/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func gapPolicyPtr(policy model.GapPolicy) *model.GapPolicy {
	return &policy
}

func int64Ptr(value int64) *int64 {
	return &value
}

func TestAggregationBuildAvgBucket(t *testing.T) {
	tests := []struct {
		name            string
		params          model.AvgBucketParams
		expectedError   bool
		validationError bool
		validate        func(*testing.T, model.Document)
	}{
		{
			name: "minimal parameters",
			params: model.AvgBucketParams{
				BucketPath: "my_bucket>avg",
			},
			validate: func(t *testing.T, document model.Document) {
				fields := document[aggregation.OperatorAvgBucket].(map[string]any)
				assert.Equal(t, map[string]any{"bucket_path": "my_bucket>avg"}, fields)
			},
		},
		{
			name: "all parameters",
			params: model.AvgBucketParams{
				BucketPath: "b",
				GapPolicy:  gapPolicyPtr(model.GapPolicySkip),
				Format:     int64Ptr(2),
			},
			validate: func(t *testing.T, document model.Document) {
				fields := document[aggregation.OperatorAvgBucket].(map[string]any)
				assert.Len(t, fields, 3)
				assert.Equal(t, model.GapPolicySkip, fields["gap_policy"])
				assert.Equal(t, int64(2), fields["format"])
			},
		},
		{
			name:            "missing bucket path",
			params:          model.AvgBucketParams{},
			expectedError:   true,
			validationError: true,
		},
		{
			name: "invalid gap policy",
			params: model.AvgBucketParams{
				BucketPath: "b",
				GapPolicy:  gapPolicyPtr(model.GapPolicy("interpolate")),
			},
			expectedError:   true,
			validationError: true,
		},
	}

	assertion := assert.New(t)
	svc := NewAggregationBuild()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			document, err := svc.BuildAvgBucket(context.Background(), tc.params)

			if tc.expectedError {
				assertion.Error(err)
				assertion.Nil(document)
				if tc.validationError {
					var validation errs.Validation
					assertion.True(errors.As(err, &validation))
				}
				return
			}

			assertion.NoError(err)
			tc.validate(t, document)
		})
	}
}

func TestAggregationBuildBucketScript(t *testing.T) {
	tests := []struct {
		name            string
		params          model.BucketScriptParams
		expectedError   bool
		validationError bool
		arityError      bool
		validate        func(*testing.T, model.Document)
	}{
		{
			name: "paired variables and parameters",
			params: model.BucketScriptParams{
				Script:           "params.a + params.b",
				BucketPathVars:   []string{"a", "b"},
				BucketPathParams: []string{"path.a", "path.b"},
			},
			validate: func(t *testing.T, document model.Document) {
				fields := document[aggregation.OperatorBucketScript].(map[string]any)
				assert.Equal(t, "params.a + params.b", fields["script"])
				assert.Equal(t, map[string]string{"a": "path.a", "b": "path.b"}, fields["bucket_path"])
			},
		},
		{
			name: "empty variable sequences",
			params: model.BucketScriptParams{
				Script: "0",
			},
			validate: func(t *testing.T, document model.Document) {
				fields := document[aggregation.OperatorBucketScript].(map[string]any)
				assert.Empty(t, fields["bucket_path"])
			},
		},
		{
			name:            "missing script",
			params:          model.BucketScriptParams{},
			expectedError:   true,
			validationError: true,
		},
		{
			name: "arity mismatch propagates",
			params: model.BucketScriptParams{
				Script:           "x",
				BucketPathVars:   []string{"a", "b"},
				BucketPathParams: []string{"p1"},
			},
			expectedError: true,
			arityError:    true,
		},
		{
			name: "invalid gap policy",
			params: model.BucketScriptParams{
				Script:    "x",
				GapPolicy: gapPolicyPtr(model.GapPolicy("Skip")),
			},
			expectedError:   true,
			validationError: true,
		},
	}

	assertion := assert.New(t)
	svc := NewAggregationBuild()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			document, err := svc.BuildBucketScript(context.Background(), tc.params)

			if tc.expectedError {
				assertion.Error(err)
				assertion.Nil(document)
				if tc.validationError {
					var validation errs.Validation
					assertion.True(errors.As(err, &validation))
				}
				if tc.arityError {
					var arity *aggregation.ArityMismatchError
					assertion.True(errors.As(err, &arity))
				}
				return
			}

			assertion.NoError(err)
			tc.validate(t, document)
		})
	}
}
