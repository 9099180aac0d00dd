// Package fetch retrieves published baseline surface artifacts from an
// HTTP package feed. Transient failures retry with bounded exponential
// backoff; a definitive not-found is fatal, because the comparison must
// actually happen rather than be silently skipped.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	comperrors "apicompat/internal/errors"
	"apicompat/internal/logging"
)

const (
	// DefaultTimeout bounds a single feed request.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxRetries bounds attempts on transient failures.
	DefaultMaxRetries = 3
	// DefaultMaxBodySize caps a fetched artifact at 64 MiB.
	DefaultMaxBodySize = 64 << 20
)

// Client fetches surface artifacts from a package feed.
type Client struct {
	feedURL string
	client  *http.Client
	logger  *logging.Logger
	retry   retryConfig
}

// retryConfig configures retry behavior.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxRetries: DefaultMaxRetries,
		baseDelay:  500 * time.Millisecond,
		maxDelay:   5 * time.Second,
	}
}

// Option adjusts client construction.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithMaxRetries overrides the retry bound. Zero means a single attempt.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retry.maxRetries = n
		}
	}
}

// NewClient creates a client for a package feed.
func NewClient(feedURL string, logger *logging.Logger, opts ...Option) *Client {
	c := &Client{
		feedURL: feedURL,
		client:  &http.Client{Timeout: DefaultTimeout},
		logger:  logger,
		retry:   defaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchBaseline retrieves the surface artifact published for one
// package version. A 404 is BASELINE_NOT_FOUND and never retried;
// network errors and 5xx responses retry with exponential backoff up
// to the configured bound, after which the run fails with FETCH_FAILED.
func (c *Client) FetchBaseline(ctx context.Context, packageID, version string) ([]byte, error) {
	u, err := url.Parse(c.feedURL)
	if err != nil {
		return nil, comperrors.New(
			comperrors.ConfigInvalid,
			fmt.Sprintf("invalid feed URL %q", c.feedURL),
			err,
		)
	}
	u = u.JoinPath("packages", packageID, version, "surface")

	resp, err := c.doRequest(ctx, u.String())
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, DefaultMaxBodySize))
	if err != nil {
		return nil, comperrors.New(
			comperrors.FetchFailed,
			fmt.Sprintf("failed to read baseline %s %s from feed", packageID, version),
			err,
		)
	}

	if c.logger != nil {
		c.logger.Debug("Fetched baseline artifact", map[string]interface{}{
			"package": packageID,
			"version": version,
			"bytes":   len(data),
		})
	}
	return data, nil
}

// doRequest performs a GET with retry logic. The returned response has
// status 200; every other outcome maps to an error.
func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retry.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retry.baseDelay * time.Duration(1<<uint(attempt-1))
			if delay > c.retry.maxDelay {
				delay = c.retry.maxDelay
			}

			select {
			case <-ctx.Done():
				return nil, comperrors.New(comperrors.FetchFailed, "baseline fetch cancelled", ctx.Err())
			case <-time.After(delay):
			}

			if c.logger != nil {
				c.logger.Debug("Retrying baseline fetch", map[string]interface{}{
					"attempt": attempt + 1,
					"url":     rawURL,
				})
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, comperrors.New(comperrors.InternalError, "failed to create feed request", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "apicompat/1.0")

		resp, err := c.client.Do(req)
		if err != nil {
			// Network errors retry.
			lastErr = err
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return resp, nil
		case resp.StatusCode == http.StatusNotFound:
			// A definitive answer from the feed: the version does not
			// exist. Retrying cannot change it.
			_ = resp.Body.Close()
			return nil, comperrors.New(
				comperrors.BaselineNotFound,
				fmt.Sprintf("baseline not found on feed: %s", rawURL),
				nil,
			)
		case resp.StatusCode >= 500:
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			continue
		default:
			// Remaining 4xx responses are client mistakes; retrying
			// cannot fix them either.
			_ = resp.Body.Close()
			return nil, comperrors.New(
				comperrors.FetchFailed,
				fmt.Sprintf("feed rejected request with HTTP %d: %s", resp.StatusCode, rawURL),
				nil,
			)
		}
	}

	return nil, comperrors.New(
		comperrors.FetchFailed,
		fmt.Sprintf("baseline fetch failed after %d retries", c.retry.maxRetries),
		lastErr,
	)
}
