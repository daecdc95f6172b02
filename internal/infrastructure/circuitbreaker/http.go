package circuitbreaker

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPClient wraps an HTTP client with circuit breaker protection. Server
// errors (5xx) count as failures so a struggling upstream trips the breaker
// before timeouts pile up.
type HTTPClient struct {
	client  *http.Client
	breaker *CircuitBreaker
	log     *zap.Logger
}

// NewHTTPClient creates a new HTTP client with circuit breaker
func NewHTTPClient(client *http.Client, breaker *CircuitBreaker, log *zap.Logger) *HTTPClient {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
		}
	}
	return &HTTPClient{
		client:  client,
		breaker: breaker,
		log:     log,
	}
}

// NewHTTPClientWithSettings creates an HTTP client guarded by a named breaker
// with the standard outbound policy.
func NewHTTPClientWithSettings(name string, timeout time.Duration, log *zap.Logger) *HTTPClient {
	breaker := New(Policy{
		Name:           name,
		TripAfter:      5,
		Cooldown:       30 * time.Second,
		HalfOpenProbes: 3,
		CloseAfter:     2,
		CountWindow:    time.Minute,
	}, log)

	return NewHTTPClient(&http.Client{Timeout: timeout}, breaker, log)
}

// Do executes an HTTP request with circuit breaker protection
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, fmt.Errorf("server error: %d", resp.StatusCode)
		}
		return resp, nil
	})

	if result == nil {
		return nil, err
	}
	return result.(*http.Response), err
}

// Get performs a GET request with circuit breaker protection
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.Do(req)
}

// Post performs a POST request with circuit breaker protection
func (c *HTTPClient) Post(ctx context.Context, url, contentType string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.Do(req)
}

// Breaker returns the underlying circuit breaker
func (c *HTTPClient) Breaker() *CircuitBreaker {
	return c.breaker
}

// RetryWithBackoff retries fn with exponential backoff. The breaker still
// guards each attempt, so an open circuit fails fast instead of burning
// retries.
func RetryWithBackoff(ctx context.Context, maxRetries int, initialBackoff time.Duration, fn func() error) error {
	backoff := initialBackoff

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if IsCircuitOpen(lastErr) {
			return lastErr
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", maxRetries+1, lastErr)
}
