// Package ncbi provides the shared HTTP client for NCBI E-utilities:
// rate limiting, common request parameters, bounded retry with exponential
// backoff, and a response size guard.
package ncbi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the NCBI E-utilities base URL.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	// DefaultTool identifies this application to NCBI.
	DefaultTool = "clinical-score"
	// DefaultEmail is the contact email sent to NCBI.
	DefaultEmail = "clinical-score@users.noreply.github.com"

	// Rate limits per NCBI policy.
	RateWithoutKey = 3  // requests per second without API key
	RateWithKey    = 10 // requests per second with API key

	// DefaultMaxResponseBytes caps response bodies (50 MB).
	DefaultMaxResponseBytes int64 = 50 * 1024 * 1024

	// MaxAttempts bounds the retry loop for transient failures. The wait
	// before retry n is 2^n seconds (2s, 4s, 8s, 16s), capped.
	MaxAttempts  = 5
	maxRetryWait = 30 * time.Second
)

// Client is a rate-limited HTTP client for NCBI E-utilities endpoints.
type Client struct {
	BaseURL    string
	APIKey     string
	Tool       string
	Email      string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	MaxBytes   int64

	// Warnf logs non-fatal retry notices. Defaults to stderr.
	Warnf func(format string, args ...any)
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the base URL for requests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = u }
}

// WithAPIKey sets the NCBI API key and raises the rate limit accordingly.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.APIKey = key
		if key != "" {
			c.Limiter = rate.NewLimiter(rate.Limit(RateWithKey), 1)
		}
	}
}

// WithTool sets the tool parameter for NCBI requests.
func WithTool(tool string) Option {
	return func(c *Client) { c.Tool = tool }
}

// WithEmail sets the email parameter for NCBI requests.
func WithEmail(email string) Option {
	return func(c *Client) { c.Email = email }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithMaxResponseBytes sets the maximum allowed response body size.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) { c.MaxBytes = n }
}

// NewClient creates a client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL:  DefaultBaseURL,
		Tool:     DefaultTool,
		Email:    DefaultEmail,
		MaxBytes: DefaultMaxResponseBytes,
		Limiter:  rate.NewLimiter(rate.Limit(RateWithoutKey), 1),
		HTTPClient: &http.Client{
			Timeout: 20 * time.Second,
		},
		Warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a rate-limited GET against an E-utilities endpoint with the
// common NCBI parameters added, retrying transient failures (network
// errors, 429, 5xx) up to MaxAttempts with exponential backoff. The last
// error is returned on exhaustion; callers decide whether that drops a
// batch or aborts.
func (c *Client) Get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}
	if c.Tool != "" {
		params.Set("tool", c.Tool)
	}
	if c.Email != "" {
		params.Set("email", c.Email)
	}

	u, err := url.JoinPath(c.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}
	fullURL := u + "?" + params.Encode()

	var lastErr error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		if attempt > 1 {
			wait := backoff(attempt - 1)
			c.Warnf("attempt %d failed for %s: %v; retrying in %s", attempt-1, endpoint, lastErr, wait)
			if err := sleepWithContext(ctx, wait); err != nil {
				return nil, fmt.Errorf("retry canceled: %w", err)
			}
		}

		if err := c.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, retryable, err := c.do(ctx, fullURL, endpoint)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%s failed after %d attempts: %w", endpoint, MaxAttempts, lastErr)
}

// do issues one request. The bool reports whether the failure is worth
// retrying.
func (c *Client) do(ctx context.Context, fullURL, endpoint string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		// Honor Retry-After before the regular backoff kicks in.
		if d := retryAfterDuration(resp.Header.Get("Retry-After")); d > 0 {
			if err := sleepWithContext(ctx, d); err != nil {
				return nil, false, err
			}
		}
		return nil, true, fmt.Errorf("NCBI returned HTTP %d for %s", resp.StatusCode, endpoint)
	default:
		return nil, false, fmt.Errorf("NCBI returned HTTP %d for %s", resp.StatusCode, endpoint)
	}

	// Read up to MaxBytes+1 so an oversized response is detectable.
	r := io.LimitReader(resp.Body, c.MaxBytes+1)
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, true, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(body)) > c.MaxBytes {
		return nil, false, fmt.Errorf("response exceeds maximum size of %d bytes", c.MaxBytes)
	}
	return body, false, nil
}

// backoff returns the wait before the retry following attempt n: 2^n
// seconds, capped at maxRetryWait.
func backoff(n int) time.Duration {
	d := time.Duration(1<<uint(n)) * time.Second
	if d > maxRetryWait {
		return maxRetryWait
	}
	return d
}

func retryAfterDuration(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	if secs, err := strconv.Atoi(v); err == nil {
		if secs > 0 {
			return time.Duration(secs) * time.Second
		}
		return 0
	}

	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}

	return 0
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
