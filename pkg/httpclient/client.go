// Copyright The Searchcraft Authors and each contributor to Searchcraft.
// SPDX-License-Identifier: MIT

package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// Client is a generic HTTP client with retry logic
type Client struct {
	config     Config
	httpClient *http.Client
}

// Request represents an HTTP request configuration. Body is kept as bytes
// so every retry attempt sends a fresh copy.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response represents an HTTP response
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// RetryableError represents an HTTP-level error that may be retried
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return e.Message
}

// Do executes an HTTP request, retrying transient failures up to the
// configured number of attempts
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.config.RetryDelay
			if c.config.RetryBackoff {
				delay = time.Duration(int64(delay) * int64(1<<(attempt-1)))
			}

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		response, err := c.doRequest(ctx, req)
		if err == nil {
			return response, nil
		}

		lastErr = err

		if !c.shouldRetry(err) {
			break
		}
	}

	slog.ErrorContext(ctx, "request failed", "error", lastErr, "url", req.URL)

	return nil, lastErr
}

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context, reqConfig Request) (*Response, error) {
	var reqBody io.Reader
	if len(reqConfig.Body) > 0 {
		reqBody = bytes.NewReader(reqConfig.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, reqConfig.Method, reqConfig.URL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	for key, value := range reqConfig.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return response, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return response, nil
}

// shouldRetry determines if a request should be retried based on the error
func (c *Client) shouldRetry(err error) bool {
	if err == nil {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		// Retry on server errors and rate limiting
		return retryableErr.StatusCode >= http.StatusInternalServerError ||
			retryableErr.StatusCode == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// Retry on transport-level churn that the error chain does not type
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset")
}

// Request performs an HTTP request with the specified verb
func (c *Client) Request(ctx context.Context, verb, url string, body []byte, headers map[string]string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:  verb,
		URL:     url,
		Headers: headers,
		Body:    body,
	})
}

// NewClient creates a new HTTP client with the given configuration
func NewClient(config Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}
