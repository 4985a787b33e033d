// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package port

import (
	"context"
	"log/slog"
)

// Authenticator defines the behavior for validating bearer tokens and
// extracting the caller's principal
type Authenticator interface {
	// ParsePrincipal validates the token and returns the principal claim
	ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error)
}
