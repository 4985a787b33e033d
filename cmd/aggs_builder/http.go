// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// handleHTTPServer configures and starts an HTTP server on the given address.
// It shuts down the server when the context is cancelled and reports the
// listen error on the error channel.
func handleHTTPServer(ctx context.Context, addr string, handler http.Handler, wg *sync.WaitGroup, errc chan error) {

	// Start HTTP server using default configuration, change the code to
	// configure the server as required by your service.
	srv := &http.Server{Addr: addr, Handler: handler, ReadHeaderTimeout: time.Second * 60}

	(*wg).Add(1)
	go func() {
		defer (*wg).Done()

		// Start HTTP server in a separate goroutine.
		go func() {
			slog.InfoContext(ctx, "HTTP server listening", "addr", addr)
			errc <- srv.ListenAndServe()
		}()

		<-ctx.Done()
		slog.InfoContext(ctx, "shutting down HTTP server", "addr", addr)

		// Shutdown gracefully with a 30s timeout.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "failed to shutdown HTTP server", "error", err)
		}
	}()
}
