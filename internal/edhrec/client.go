// Package edhrec fetches community card recommendations for a commander.
// It prefers EDHREC's structured JSON page data and falls back to best-effort
// scraping of the rendered commander page. An unreachable or empty feed is a
// valid, handled state: callers get an empty list, never an error they must
// branch on.
package edhrec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/ramonehamilton/EDH-Deckbuilder/internal/normalize"
)

const (
	defaultJSONBaseURL = "https://json.edhrec.com/pages/commanders"
	defaultHTMLBaseURL = "https://edhrec.com/commanders"
	rateLimitDelay     = 500 * time.Millisecond
	requestTimeout     = 12 * time.Second
)

// Client fetches ranked card recommendations for a commander.
type Client struct {
	jsonBaseURL string
	htmlBaseURL string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	userAgent   string
	extractors  []Extractor
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the structured and rendered endpoints. An empty
// string keeps the default for that endpoint.
func WithBaseURLs(jsonBase, htmlBase string) Option {
	return func(c *Client) {
		if jsonBase != "" {
			c.jsonBaseURL = jsonBase
		}
		if htmlBase != "" {
			c.htmlBaseURL = htmlBase
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithExtractors replaces the fallback scraping strategies.
func WithExtractors(ex ...Extractor) Option {
	return func(c *Client) { c.extractors = ex }
}

// WithLogger sets the logger for degradation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a recommendation client with default endpoints and the
// default extractor chain.
func NewClient(opts ...Option) *Client {
	c := &Client{
		jsonBaseURL: defaultJSONBaseURL,
		htmlBaseURL: defaultHTMLBaseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(rateLimitDelay), 1),
		userAgent:   "EDH-Deckbuilder/1.0",
		extractors:  defaultExtractors(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recommendations returns recommended card names for the commander, in the
// feed's ranking order, deduplicated by normalized name with the first
// occurrence winning. Failures in both tiers yield an empty slice.
func (c *Client) Recommendations(ctx context.Context, commanderName string) []string {
	slug := normalize.Slug(commanderName)
	if slug == "" {
		return nil
	}

	if names := c.fetchJSON(ctx, slug); len(names) > 0 {
		return dedupe(names)
	}

	c.logger.Debug("structured recommendation source empty, scraping fallback", "slug", slug)
	return dedupe(c.fetchHTML(ctx, slug))
}

// fetchJSON reads the structured page document and extracts every card name
// nested under its grouped card lists, preserving list and nested order.
func (c *Client) fetchJSON(ctx context.Context, slug string) []string {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s.json", c.jsonBaseURL, slug))
	if err != nil {
		c.logger.Debug("structured recommendation fetch failed", "slug", slug, "error", err)
		return nil
	}

	var names []string
	lists := gjson.GetBytes(body, "container.json_dict.cardlists")
	lists.ForEach(func(_, list gjson.Result) bool {
		list.Get("cardviews").ForEach(func(_, view gjson.Result) bool {
			if name := view.Get("name").String(); name != "" {
				names = append(names, name)
			}
			return true
		})
		return true
	})
	return names
}

// fetchHTML scrapes the rendered commander page through the extractor chain,
// taking the union of all strategies in discovery order.
func (c *Client) fetchHTML(ctx context.Context, slug string) []string {
	body, err := c.get(ctx, fmt.Sprintf("%s/%s", c.htmlBaseURL, slug))
	if err != nil {
		c.logger.Debug("fallback recommendation fetch failed", "slug", slug, "error", err)
		return nil
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		c.logger.Debug("fallback page parse failed", "slug", slug, "error", err)
		return nil
	}

	var names []string
	for _, ex := range c.extractors {
		names = append(names, ex.Extract(doc)...)
	}
	return names
}

// get performs a rate-limited GET and returns the body for 200 responses.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// dedupe removes duplicate names by normalized key, first occurrence wins,
// preserving the source's ranking signal.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		key := normalize.Name(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}
