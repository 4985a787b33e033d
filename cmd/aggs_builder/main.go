// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/searchcraft/aggs-builder-service/internal/api"
	"github.com/searchcraft/aggs-builder-service/internal/config"
	"github.com/searchcraft/aggs-builder-service/internal/domain/port"
	"github.com/searchcraft/aggs-builder-service/internal/infrastructure/auth"
	"github.com/searchcraft/aggs-builder-service/internal/infrastructure/elasticsearch"
	"github.com/searchcraft/aggs-builder-service/internal/infrastructure/mock"
	natsinfra "github.com/searchcraft/aggs-builder-service/internal/infrastructure/nats"
	"github.com/searchcraft/aggs-builder-service/internal/infrastructure/opensearch"
	"github.com/searchcraft/aggs-builder-service/internal/service"
	logging "github.com/searchcraft/aggs-builder-service/pkg/log"
)

const (
	// gracefulShutdownSeconds should be higher than the NATS client
	// request timeout, and lower than the pod or liveness probe's
	// terminationGracePeriodSeconds.
	gracefulShutdownSeconds = 25
)

func init() {
	// slog is the standard library logger, we use it for all logging
	logging.InitStructureLogConfig()
}

func main() {
	// Define command line flags, add any other flag required to configure the
	// service.
	var (
		configF = flag.String("config", "", "path to the YAML configuration file")
		dbgF    = flag.Bool("d", false, "enable debug logging")
	)
	flag.Parse()

	if *dbgF {
		os.Setenv("LOG_LEVEL", "debug")
		logging.InitStructureLogConfig()
	}

	ctx := context.Background()

	cfg, err := config.Load(*configF)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "starting aggs builder service",
		"addr", cfg.Server.Addr(),
		"backend", cfg.Backend.Type,
		"nats_enabled", cfg.NATS.Enabled,
		"graceful-shutdown-seconds", gracefulShutdownSeconds,
	)

	executor, err := newExecutor(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create search backend", "error", err)
		os.Exit(1)
	}

	authenticator, err := auth.NewJWTAuth(auth.JWTAuthConfig{
		JWKSURL:            cfg.Auth.JWKSURL,
		Audience:           cfg.Auth.Audience,
		MockLocalPrincipal: cfg.Auth.MockLocalPrincipal,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to set up authentication", "error", err)
		os.Exit(1)
	}

	builder := service.NewAggregationBuild()
	runner := service.NewAggregationRun(executor)
	router := api.NewRouter(api.NewHandler(builder, runner), authenticator, cfg.Server.Mode)

	// errc collects the shutdown reason: an OS signal or a server error.
	errc := make(chan error)
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		errc <- fmt.Errorf("signal: %s", <-c)
	}()

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup

	handleHTTPServer(ctx, cfg.Server.Addr(), router, &wg, errc)

	var responder *natsinfra.BuildResponder
	if cfg.NATS.Enabled {
		natsClient, errNATS := natsinfra.NewClient(ctx, natsinfra.Config{
			URL:           cfg.NATS.URL,
			Timeout:       cfg.NATS.Timeout,
			MaxReconnect:  cfg.NATS.MaxReconnect,
			ReconnectWait: cfg.NATS.ReconnectWait,
		})
		if errNATS != nil {
			slog.ErrorContext(ctx, "failed to create NATS client", "error", errNATS)
			cancel()
			os.Exit(1)
		}
		responder = natsinfra.NewBuildResponder(natsClient, builder)
		if errStart := responder.Start(ctx); errStart != nil {
			slog.ErrorContext(ctx, "failed to start NATS build responder", "error", errStart)
			cancel()
			os.Exit(1)
		}
	}

	slog.InfoContext(ctx, "exiting", "reason", <-errc)

	cancel()
	if responder != nil {
		if errClose := responder.Close(); errClose != nil {
			slog.ErrorContext(ctx, "failed to close NATS responder", "error", errClose)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(gracefulShutdownSeconds * time.Second):
		slog.WarnContext(ctx, "graceful shutdown window elapsed")
	}

	slog.InfoContext(ctx, "exited")
}

// newExecutor selects the search backend from the configuration
func newExecutor(ctx context.Context, cfg *config.Config) (port.AggregationExecutor, error) {
	switch cfg.Backend.Type {
	case "opensearch":
		return opensearch.NewExecutor(ctx, opensearch.Config{
			URL:   cfg.OpenSearch.URL,
			Index: cfg.OpenSearch.Index,
		})
	case "elasticsearch":
		return elasticsearch.NewExecutor(elasticsearch.Config{
			URL:      cfg.Elasticsearch.URL,
			Username: cfg.Elasticsearch.Username,
			Password: cfg.Elasticsearch.Password,
			Index:    cfg.Elasticsearch.Index,
		})
	case "mock":
		slog.WarnContext(ctx, "using the in-memory mock search backend")
		return mock.NewMockExecutor(), nil
	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Backend.Type)
	}
}
