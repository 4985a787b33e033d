// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGapPolicy(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		expected      GapPolicy
		expectedError bool
	}{
		{
			name:     "skip",
			token:    "skip",
			expected: GapPolicySkip,
		},
		{
			name:     "insert_zeros",
			token:    "insert_zeros",
			expected: GapPolicyInsertZeros,
		},
		{
			name:          "empty token",
			token:         "",
			expectedError: true,
		},
		{
			name:          "unknown token",
			token:         "interpolate",
			expectedError: true,
		},
		{
			name:          "wrong casing",
			token:         "Skip",
			expectedError: true,
		},
		{
			name:          "variant name instead of wire token",
			token:         "InsertZeros",
			expectedError: true,
		},
	}

	assertion := assert.New(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			policy, err := ParseGapPolicy(tc.token)
			if tc.expectedError {
				assertion.Error(err)
				return
			}
			assertion.NoError(err)
			assertion.Equal(tc.expected, policy)
			assertion.True(policy.Valid())
		})
	}
}

func TestGapPolicySerialization(t *testing.T) {
	assertion := assert.New(t)

	serialized, err := json.Marshal(map[string]GapPolicy{
		"skip":  GapPolicySkip,
		"zeros": GapPolicyInsertZeros,
	})
	assertion.NoError(err)
	assertion.JSONEq(`{"skip": "skip", "zeros": "insert_zeros"}`, string(serialized))
}
