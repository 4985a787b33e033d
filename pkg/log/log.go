// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

// Package log configures the process-wide slog logger and lets request
// scoped attributes ride along on the context.
package log

import (
	"context"
	"log"
	"log/slog"
	"os"
)

type ctxKey string

const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelInfo
)

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		v = append(v, attr)
		return context.WithValue(parent, slogFields, v)
	}

	v := []slog.Attr{}
	v = append(v, attr)
	return context.WithValue(parent, slogFields, v)
}

// InitStructureLogConfig sets the structured log behavior from the
// LOG_LEVEL, LOG_ADD_SOURCE and LOG_FORMAT environment variables.
func InitStructureLogConfig() {

	logOptions := &slog.HandlerOptions{
		Level:     logLevelDefault,
		AddSource: os.Getenv("LOG_ADD_SOURCE") == "true",
	}

	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		logOptions.Level = slog.LevelDebug
	case "info":
		logOptions.Level = slog.LevelInfo
	case "warn":
		logOptions.Level = slog.LevelWarn
	case "error":
		logOptions.Level = slog.LevelError
	}

	var h slog.Handler
	if os.Getenv("LOG_FORMAT") == "text" {
		h = slog.NewTextHandler(os.Stdout, logOptions)
	} else {
		h = slog.NewJSONHandler(os.Stdout, logOptions)
	}

	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(contextHandler{h}))
}
