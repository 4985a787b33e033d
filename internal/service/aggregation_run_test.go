// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/searchcraft/aggs-builder-service/internal/domain/aggregation"
	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
	"github.com/searchcraft/aggs-builder-service/internal/infrastructure/mock"
	"github.com/searchcraft/aggs-builder-service/pkg/constants"
	errs "github.com/searchcraft/aggs-builder-service/pkg/errors"
	"github.com/searchcraft/aggs-builder-service/pkg/global"
	"github.com/searchcraft/aggs-builder-service/pkg/paging"

	"github.com/stretchr/testify/assert"
)

func principalContext(principal string) context.Context {
	return context.WithValue(context.Background(), constants.PrincipalContextID, principal)
}

func runCriteria() model.RunCriteria {
	return model.RunCriteria{
		Name:     "monthly_avg",
		Pipeline: aggregation.AvgBucket("sales_per_month>sales", nil, nil),
		Siblings: json.RawMessage(`{"sales_per_month": {"date_histogram": {"field": "date", "calendar_interval": "month"}, "aggs": {"sales": {"sum": {"field": "price"}}}}}`),
	}
}

func TestAggregationRun(t *testing.T) {
	tests := []struct {
		name               string
		criteria           func() model.RunCriteria
		principal          string
		setupMock          func(*mock.MockExecutor)
		expectedError      bool
		validationError    bool
		unauthorized       bool
		expectedSampleSize int
	}{
		{
			name:               "successful run with authenticated user",
			criteria:           runCriteria,
			principal:          "user123",
			expectedSampleSize: constants.DefaultSampleSize,
		},
		{
			name: "explicit sample size is preserved",
			criteria: func() model.RunCriteria {
				criteria := runCriteria()
				criteria.SampleSize = 25
				return criteria
			},
			principal:          "user123",
			expectedSampleSize: 25,
		},
		{
			name: "sample size is capped",
			criteria: func() model.RunCriteria {
				criteria := runCriteria()
				criteria.SampleSize = 10_000
				return criteria
			},
			principal:          "user123",
			expectedSampleSize: constants.MaxSampleSize,
		},
		{
			name: "missing aggregation name",
			criteria: func() model.RunCriteria {
				criteria := runCriteria()
				criteria.Name = ""
				return criteria
			},
			principal:       "user123",
			expectedError:   true,
			validationError: true,
		},
		{
			name: "missing pipeline document",
			criteria: func() model.RunCriteria {
				criteria := runCriteria()
				criteria.Pipeline = nil
				return criteria
			},
			principal:       "user123",
			expectedError:   true,
			validationError: true,
		},
		{
			name:          "anonymous principal rejected",
			criteria:      runCriteria,
			principal:     constants.AnonymousPrincipal,
			expectedError: true,
			unauthorized:  true,
		},
		{
			name:      "executor failure propagates",
			criteria:  runCriteria,
			principal: "user123",
			setupMock: func(executor *mock.MockExecutor) {
				executor.Err = errors.New("backend unreachable")
			},
			expectedError: true,
		},
	}

	assertion := assert.New(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			executor := mock.NewMockExecutor()
			if tc.setupMock != nil {
				tc.setupMock(executor)
			}
			svc := NewAggregationRun(executor)

			result, err := svc.Run(principalContext(tc.principal), tc.criteria())

			if tc.expectedError {
				assertion.Error(err)
				assertion.Nil(result)
				if tc.validationError {
					var validation errs.Validation
					assertion.True(errors.As(err, &validation))
				}
				if tc.unauthorized {
					var unauthorized errs.Unauthorized
					assertion.True(errors.As(err, &unauthorized))
				}
				return
			}

			assertion.NoError(err)
			assertion.NotNil(result)

			call := executor.LastCall()
			assertion.NotNil(call)
			assertion.Equal(tc.expectedSampleSize, call.SampleSize)
		})
	}
}

func TestAggregationRunMissingPrincipal(t *testing.T) {
	assertion := assert.New(t)

	svc := NewAggregationRun(mock.NewMockExecutor())
	result, err := svc.Run(context.Background(), runCriteria())

	assertion.Error(err)
	assertion.Nil(result)

	var unauthorized errs.Unauthorized
	assertion.True(errors.As(err, &unauthorized))
}

func TestAggregationRunPageToken(t *testing.T) {
	assertion := assert.New(t)
	t.Setenv("PAGE_TOKEN_SECRET", "run-service-page-token-secret!!")

	ctx := principalContext("user123")
	secret, err := global.PageTokenSecret(ctx)
	assertion.NoError(err)
	token, err := paging.EncodePageToken([]any{"2024-02-01", "order-9"}, secret)
	assertion.NoError(err)

	executor := mock.NewMockExecutor()
	svc := NewAggregationRun(executor)

	criteria := runCriteria()
	criteria.PageToken = &token

	_, err = svc.Run(ctx, criteria)
	assertion.NoError(err)

	call := executor.LastCall()
	assertion.NotNil(call)
	assertion.NotNil(call.SearchAfter)
	assertion.JSONEq(`["2024-02-01","order-9"]`, *call.SearchAfter)
}

func TestAggregationRunPageTokenSecretNotConfigured(t *testing.T) {
	assertion := assert.New(t)
	t.Setenv("PAGE_TOKEN_SECRET", "")

	executor := mock.NewMockExecutor()
	svc := NewAggregationRun(executor)

	criteria := runCriteria()
	token := "any-token"
	criteria.PageToken = &token

	result, err := svc.Run(principalContext("user123"), criteria)
	assertion.Error(err)
	assertion.Nil(result)

	var unavailable errs.ServiceUnavailable
	assertion.True(errors.As(err, &unavailable))
	assertion.Nil(executor.LastCall())
}

func TestAggregationRunInvalidPageToken(t *testing.T) {
	assertion := assert.New(t)
	t.Setenv("PAGE_TOKEN_SECRET", "run-service-page-token-secret!!")

	svc := NewAggregationRun(mock.NewMockExecutor())

	criteria := runCriteria()
	badToken := "not-a-real-token"
	criteria.PageToken = &badToken

	result, err := svc.Run(principalContext("user123"), criteria)
	assertion.Error(err)
	assertion.Nil(result)
}

func TestAggregationRunReady(t *testing.T) {
	assertion := assert.New(t)

	executor := mock.NewMockExecutor()
	svc := NewAggregationRun(executor)
	assertion.NoError(svc.Ready(context.Background()))

	executor.ReadyErr = errors.New("connection refused")
	err := svc.Ready(context.Background())
	assertion.Error(err)

	var unavailable errs.ServiceUnavailable
	assertion.True(errors.As(err, &unavailable))
}
