// Package github implements the contribution and event source ports against
// the GitHub REST and GraphQL APIs.
package github

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/ericfisherdev/devfolio/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.ContributionSource = (*Client)(nil)
	_ driven.EventSource        = (*Client)(nil)
)

const defaultGraphQLURL = "https://api.github.com/graphql"

// Client fetches per-account activity from GitHub. It holds no account
// state: credentials are applied per call, so one Client serves every
// account of the registry.
type Client struct {
	rest       *gh.Client   // unauthenticated base client
	httpClient *http.Client // shared transport stack, also used for GraphQL
	graphqlURL string
	metrics    *Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records upstream traffic in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the logger used for rate limit and pagination diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a GitHub client with the following transport stack:
//  1. prometheus instrumentation (when WithMetrics is given)
//  2. httpcache (ETag-based conditional request caching)
//  3. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  4. go-github (REST API client, token applied per account)
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		graphqlURL: defaultGraphQLURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = c.metrics.instrument(http.DefaultTransport)

	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	rateLimitClient.Timeout = timeout

	c.httpClient = rateLimitClient
	c.rest = gh.NewClient(rateLimitClient)

	return c
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}

	c := &Client{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = httpClient
	c.rest = gh.NewClient(httpClient)
	c.rest.BaseURL = u

	// Derive graphqlURL from baseURL so httptest servers can intercept GraphQL requests.
	graphqlU := *u
	graphqlU.Path = "/graphql"
	c.graphqlURL = graphqlU.String()

	return c, nil
}

// restFor returns a REST client authenticated as token, or the shared
// unauthenticated client when token is empty.
func (c *Client) restFor(token string) *gh.Client {
	if token == "" {
		return c.rest
	}
	return c.rest.WithAuthToken(token)
}

func (c *Client) logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	c.logger.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Limit > 0 && resp.Rate.Remaining < 100 {
		c.logger.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}
