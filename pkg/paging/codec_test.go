// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package paging

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/searchcraft/aggs-builder-service/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func testSecret() *[32]byte {
	var secret [32]byte
	copy(secret[:], []byte("paging-codec-test-secret-32-byte"))
	return &secret
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name        string
		searchAfter any
		expected    string
	}{
		{
			name:        "sort values array",
			searchAfter: []any{"2024-01-01", "doc-42"},
			expected:    `["2024-01-01","doc-42"]`,
		},
		{
			name:        "numeric sort values",
			searchAfter: []any{float64(17), "abc"},
			expected:    `[17,"abc"]`,
		},
		{
			name:        "empty array",
			searchAfter: []any{},
			expected:    `[]`,
		},
	}

	assertion := assert.New(t)
	secret := testSecret()

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			token, err := EncodePageToken(tc.searchAfter, secret)
			assertion.NoError(err)
			assertion.NotEmpty(token)

			decoded, err := DecodePageToken(context.Background(), token, secret)
			assertion.NoError(err)
			assertion.Equal(tc.expected, decoded)
		})
	}
}

func TestEncodeIsNonDeterministic(t *testing.T) {
	assertion := assert.New(t)
	secret := testSecret()

	first, err := EncodePageToken([]any{"a"}, secret)
	assertion.NoError(err)
	second, err := EncodePageToken([]any{"a"}, secret)
	assertion.NoError(err)

	// fresh nonce per token
	assertion.NotEqual(first, second)
}

func TestDecodePageTokenFailures(t *testing.T) {
	secret := testSecret()

	tests := []struct {
		name    string
		encoded string
	}{
		{
			name:    "not base64",
			encoded: "%%%not-base64%%%",
		},
		{
			name:    "too short",
			encoded: base64.RawURLEncoding.EncodeToString([]byte("short")),
		},
		{
			name: "wrong secret",
			encoded: func() string {
				var other [32]byte
				copy(other[:], []byte("a-completely-different-secret-32"))
				token, _ := EncodePageToken([]any{"a"}, &other)
				return token
			}(),
		},
	}

	assertion := assert.New(t)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePageToken(context.Background(), tc.encoded, secret)
			assertion.Error(err)

			var validation errors.Validation
			assertion.ErrorAs(err, &validation)
		})
	}
}
