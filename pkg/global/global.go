// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package global

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

const pageTokenSecretName = "PAGE_TOKEN_SECRET"

var (
	pageTokenSecret       [32]byte
	doOncePageTokenSecret sync.Once
)

// PageTokenSecret retrieves the secret used for encoding and decoding page
// tokens. A missing secret is reported as an error so callers can degrade
// gracefully instead of taking the process down.
func PageTokenSecret(ctx context.Context) (*[32]byte, error) {

	pageTokenSecretValue := os.Getenv(pageTokenSecretName)
	if pageTokenSecretValue == "" {
		slog.ErrorContext(ctx, fmt.Sprintf("%s environment variable is not set", pageTokenSecretName))
		return nil, fmt.Errorf("%s environment variable is not set", pageTokenSecretName)
	}

	doOncePageTokenSecret.Do(func() {
		copy(pageTokenSecret[:], []byte(pageTokenSecretValue))
	})

	return &pageTokenSecret, nil
}
