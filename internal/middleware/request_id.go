// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"

	"github.com/searchcraft/aggs-builder-service/pkg/constants"
	"github.com/searchcraft/aggs-builder-service/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID creates a middleware that adds a request ID to the context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try to get request ID from header first
		requestID := c.GetHeader(constants.RequestIDHeader)

		// If no request ID in header, generate a new one
		if requestID == "" {
			requestID = generateRequestID()
		}

		// Add request ID to response header
		c.Writer.Header().Set(constants.RequestIDHeader, requestID)

		// Add request ID to the request context so every log record
		// created with it carries the ID
		ctx := context.WithValue(c.Request.Context(), constants.RequestIDContextID, requestID)
		ctx = log.AppendCtx(ctx, slog.String("request_id", requestID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// generateRequestID generates a new unique request ID
func generateRequestID() string {
	return uuid.New().String()
}
