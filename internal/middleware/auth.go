// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/searchcraft/aggs-builder-service/internal/domain/port"
	"github.com/searchcraft/aggs-builder-service/pkg/constants"
	"github.com/searchcraft/aggs-builder-service/pkg/log"

	"github.com/gin-gonic/gin"
)

// Principal creates a middleware that resolves the caller's principal from
// the bearer token. Requests without a token proceed as the anonymous
// principal; an invalid token is rejected outright.
func Principal(authenticator port.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := constants.AnonymousPrincipal

		header := c.GetHeader("Authorization")
		if header != "" {
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "authorization header must use the Bearer scheme",
				})
				return
			}

			parsed, err := authenticator.ParsePrincipal(c.Request.Context(), token, slog.Default())
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": err.Error(),
				})
				return
			}
			principal = parsed
		}

		ctx := context.WithValue(c.Request.Context(), constants.PrincipalContextID, principal)
		ctx = log.AppendCtx(ctx, slog.String("principal", principal))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
