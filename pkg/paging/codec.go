// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

// Package paging implements the opaque page token scheme used by run
// results. A token carries the sort values of the last hit of a page,
// sealed with NaCl secretbox so callers cannot inspect or forge it.
package paging

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/searchcraft/aggs-builder-service/pkg/constants"
	"github.com/searchcraft/aggs-builder-service/pkg/errors"

	"golang.org/x/crypto/nacl/secretbox"
)

// EncodePageToken seals the sort values of the last hit into an opaque
// URL-safe token. The nonce is random, so encoding the same values twice
// yields different tokens.
func EncodePageToken(searchAfter any, secretKey *[32]byte) (string, error) {
	payload, err := json.Marshal(searchAfter)
	if err != nil {
		return "", errors.NewUnexpected("failed to marshal search_after data", err)
	}

	var nonce [constants.NonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", errors.NewUnexpected("failed to generate nonce for page token", err)
	}

	sealed := secretbox.Seal(nonce[:], payload, &nonce, secretKey)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecodePageToken opens a token produced by EncodePageToken and returns
// the search_after payload as a JSON string. Truncated or tampered
// tokens come back as validation errors so callers can reject them as
// bad input rather than server faults.
func DecodePageToken(ctx context.Context, encoded string, secretKey *[32]byte) (string, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.NewValidation("invalid encoded page token", err)
	}

	if len(sealed) < constants.NonceSize+secretbox.Overhead {
		return "", errors.NewValidation(
			"invalid page token length",
			fmt.Errorf("expected at least %d bytes, got %d", constants.NonceSize+secretbox.Overhead, len(sealed)),
		)
	}

	var nonce [constants.NonceSize]byte
	copy(nonce[:], sealed[:constants.NonceSize])
	payload, ok := secretbox.Open(nil, sealed[constants.NonceSize:], &nonce, secretKey)
	if !ok {
		return "", errors.NewValidation("failed to decrypt page token")
	}

	if !json.Valid(payload) {
		return "", errors.NewValidation("page token payload is not valid JSON")
	}

	slog.DebugContext(ctx, "decoded page token")

	return string(payload), nil
}
