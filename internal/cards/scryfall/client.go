// Package scryfall provides a rate-limited client for the Scryfall card
// lookup API. Only fuzzy named lookup is used by the deck builder; the
// endpoint tolerates minor misspellings, which callers rely on.
package scryfall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/cards"
)

const (
	defaultBaseURL = "https://api.scryfall.com"
	rateLimitDelay = 100 * time.Millisecond // 10 req/sec, per Scryfall guidance
	requestTimeout = 10 * time.Second
	maxRetries     = 2
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 4 * time.Second
)

// Client is a Scryfall API client with rate limiting and retry.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests and for proxies.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit overrides the request rate limit.
func WithRateLimit(limit rate.Limit) Option {
	return func(c *Client) { c.rateLimiter = rate.NewLimiter(limit, 1) }
}

// NewClient creates a new Scryfall API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "EDH-Deckbuilder/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NamedFuzzy retrieves a card by name using Scryfall's fuzzy matcher.
// A card that cannot be matched yields a *NotFoundError.
func (c *Client) NamedFuzzy(ctx context.Context, name string) (*cards.Card, error) {
	if name == "" {
		return nil, &NotFoundError{Name: name}
	}
	u := fmt.Sprintf("%s/cards/named?fuzzy=%s", c.baseURL, url.QueryEscape(name))

	var card cards.Card
	if err := c.doRequest(ctx, u, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// doRequest performs an HTTP GET with rate limiting and retry logic.
func (c *Client) doRequest(ctx context.Context, u string, result interface{}) error {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("HTTP request failed: %w", err)
			if attempt < maxRetries && ctx.Err() == nil {
				sleep(ctx, backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusOK:
			if readErr != nil {
				return fmt.Errorf("failed to read response body: %w", readErr)
			}
			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to parse JSON response: %w", err)
			}
			return nil

		case http.StatusTooManyRequests:
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			if attempt < maxRetries {
				sleep(ctx, backoff)
				backoff = minDuration(backoff*2, maxBackoff)
				continue
			}
			return lastErr

		case http.StatusNotFound:
			return &NotFoundError{URL: u}

		default:
			var apiErr APIError
			if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Details != "" {
				return &apiErr
			}
			return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// sleep waits for d or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
