// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package mock

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/searchcraft/aggs-builder-service/internal/domain/model"
)

// MockExecutor is a mock implementation of AggregationExecutor for testing
// and local development. This demonstrates how the clean architecture allows
// easy swapping of implementations.
type MockExecutor struct {
	mu sync.Mutex

	// Result is returned by Execute when Err is nil
	Result *model.RunResult
	// Err is returned by Execute when set
	Err error
	// ReadyErr is returned by IsReady when set
	ReadyErr error
	// Calls records every criteria Execute was invoked with
	Calls []model.RunCriteria
}

// Execute implements the AggregationExecutor interface
func (m *MockExecutor) Execute(ctx context.Context, criteria model.RunCriteria) (*model.RunResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, criteria)
	m.mu.Unlock()

	slog.DebugContext(ctx, "mock executor run",
		"name", criteria.Name,
	)

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

// IsReady implements the AggregationExecutor interface
func (m *MockExecutor) IsReady(ctx context.Context) error {
	return m.ReadyErr
}

// LastCall returns the most recent criteria Execute was invoked with
func (m *MockExecutor) LastCall() *model.RunCriteria {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	return &m.Calls[len(m.Calls)-1]
}

// NewMockExecutor creates a new mock executor with a canned aggregation result
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Result: &model.RunResult{
			Aggregations: json.RawMessage(`{"monthly_avg": {"value": 328.33}}`),
			Hits: []model.Hit{
				{
					ID:     "order-1",
					Score:  1.0,
					Source: json.RawMessage(`{"amount": 230, "month": "2024-01"}`),
				},
			},
			Total: 1,
		},
	}
}
