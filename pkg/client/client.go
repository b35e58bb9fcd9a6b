// Package client provides the rate-limited Plentymarkets REST client:
// login with protocol auto-detection, bearer-token handling, bounded
// retries and throttling-window tracking across calls.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/catalogport/plenty-export/pkg/cache"
	"github.com/catalogport/plenty-export/pkg/plenty"
	"github.com/catalogport/plenty-export/pkg/ratelimit"
)

// Prometheus metrics for API calls.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plenty_requests_total",
		Help: "Total API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plenty_request_duration_seconds",
		Help:    "API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	retriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plenty_retries_total",
		Help: "Total number of retried call attempts",
	})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plenty_errors_total",
		Help: "Total call failures by error class",
	}, []string{"class"})
)

const (
	// retryCount bounds the attempts of one call, the first included.
	retryCount = 5

	// retryDelay is the fixed pause between failed attempts.
	retryDelay = 100 * time.Millisecond

	loginPath   = "login"
	refreshPath = "login/refresh"
)

// Config holds the client configuration.
type Config struct {
	// Domain is the shop host, e.g. "shop.example.com".
	Domain string

	// REST API credentials.
	Username string
	Password string

	// Protocol is the scheme tried first ("https" by default); the
	// alternate one is probed once when login fails.
	Protocol string

	// Timeout per HTTP round trip.
	Timeout time.Duration

	// Cache is an optional response cache for reference-data reads.
	Cache    *cache.Manager
	CacheTTL time.Duration
}

// Client performs authenticated, retried, throttle-aware calls against
// one Plentymarkets shop. Calls are strictly sequential; the session
// cooldown bookkeeping assumes a single caller.
type Client struct {
	httpClient *http.Client
	config     Config
	session    Session
	cache      *cache.Manager
	logger     zerolog.Logger

	// pagination overrides for the next call, cleared after every call
	itemsPerPage int
	page         int

	// loggingIn suppresses token injection while the login call itself
	// is in flight, which would otherwise recurse.
	loggingIn bool

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a client for one shop.
func New(cfg Config) (*Client, error) {
	if cfg.Domain == "" {
		return nil, fmt.Errorf("domain is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if cfg.Protocol == "" {
		cfg.Protocol = "https"
	}
	if cfg.Protocol != "https" && cfg.Protocol != "http" {
		return nil, fmt.Errorf("protocol must be http or https (got %q)", cfg.Protocol)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		session:    Session{scheme: cfg.Protocol},
		cache:      cfg.Cache,
		logger:     log.With().Str("component", "plenty-client").Logger(),
		now:        time.Now,
		sleep:      time.Sleep,
	}, nil
}

// Session exposes the current session state for inspection.
func (c *Client) Session() *Session {
	return &c.session
}

// Domain returns the configured shop host.
func (c *Client) Domain() string {
	return c.config.Domain
}

// SetItemsPerPage sets the page size for the next call only.
func (c *Client) SetItemsPerPage(n int) *Client {
	c.itemsPerPage = n
	return c
}

// SetPage sets the page number for the next call only.
func (c *Client) SetPage(n int) *Client {
	c.page = n
	return c
}

func (c *Client) resetPagination() {
	c.itemsPerPage = 0
	c.page = 0
}

// Login authenticates against the API and memoizes the token pair.
// The configured protocol is tried first; on failure the alternate
// scheme is probed once and kept for all later calls. Both failing is
// fatal for the run.
func (c *Client) Login(ctx context.Context) error {
	body, err := c.doLogin(ctx)
	if err != nil && !IsThrottled(err) {
		c.session.flipScheme()
		c.logger.Info().
			Str("scheme", c.session.Scheme()).
			Msg("Login failed, retrying with alternate protocol")
		body, err = c.doLogin(ctx)
	}
	if err != nil {
		return &APIError{Class: ClassFatal, Message: "could not connect to api", Err: err}
	}

	var resp plenty.LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &APIError{Class: ClassFatal, Message: "malformed login response", Err: err}
	}
	if resp.AccessToken == "" {
		return fatalf("incorrect login to api, response does not have an access token")
	}

	c.session.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (c *Client) doLogin(ctx context.Context) ([]byte, error) {
	c.loggingIn = true
	defer func() { c.loggingIn = false }()

	form := url.Values{}
	form.Set("username", c.config.Username)
	form.Set("password", c.config.Password)
	return c.call(ctx, http.MethodPost, loginPath, nil, form)
}

// RefreshLogin exchanges the refresh token for a new token pair.
func (c *Client) RefreshLogin(ctx context.Context) error {
	if c.session.RefreshToken() == "" {
		return fatalf("no refresh token available")
	}

	c.loggingIn = true
	defer func() { c.loggingIn = false }()

	form := url.Values{}
	form.Set("refresh_token", c.session.RefreshToken())
	body, err := c.call(ctx, http.MethodPost, refreshPath, nil, form)
	if err != nil {
		return err
	}

	var resp plenty.LoginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return &APIError{Class: ClassFatal, Message: "malformed refresh response", Err: err}
	}
	if resp.AccessToken == "" {
		return fatalf("refresh response does not have an access token")
	}

	c.session.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// call performs one authenticated round trip with retries. 401 and an
// exhausted long global budget fail immediately; any other failure is
// retried up to retryCount attempts with a fixed delay. Pagination
// overrides are cleared whatever the outcome.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, form url.Values) ([]byte, error) {
	defer c.resetPagination()

	if !c.loggingIn && c.session.AccessToken() == "" {
		// The nested login call clears the pagination overrides, so
		// they are restored for this call's URL.
		page, itemsPerPage := c.page, c.itemsPerPage
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
		c.page, c.itemsPerPage = page, itemsPerPage
	}

	fullURL := c.buildURL(path, query)

	var lastErr error
	for attempt := 1; attempt <= retryCount; attempt++ {
		if attempt > 1 {
			retriesTotal.Inc()
			c.sleep(retryDelay)
		}

		if c.session.cooldown.Pending() {
			wait := c.session.cooldown.WaitDuration(c.now())
			if wait > 0 {
				c.logger.Error().
					Dur("wait", wait).
					Str("endpoint", path).
					Msg("Throttling limit reached, waiting before next request")
				c.sleep(wait)
			}
		}

		body, err := c.send(ctx, method, path, fullURL, form)
		if err != nil {
			if IsFatal(err) || IsThrottled(err) {
				errorsTotal.WithLabelValues(string(ClassOf(err))).Inc()
				return nil, err
			}
			lastErr = err
			c.logger.Debug().
				Err(err).
				Int("attempt", attempt).
				Str("endpoint", path).
				Msg("Call attempt failed")
			continue
		}
		return body, nil
	}

	errorsTotal.WithLabelValues(string(ClassRecoverable)).Inc()
	c.logger.Warn().
		Int("max_attempts", retryCount).
		Str("url", fullURL).
		Msg("Retry attempts exhausted")
	return nil, &APIError{
		Class:   ClassRecoverable,
		URL:     fullURL,
		Message: "could not reach api method",
		Err:     fmt.Errorf("%w: %w", ErrRetryExhausted, lastErr),
	}
}

// send performs a single HTTP attempt and classifies the outcome.
func (c *Client) send(ctx context.Context, method, path, fullURL string, form url.Values) ([]byte, error) {
	var reqBody io.Reader
	if len(form) > 0 {
		reqBody = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, &APIError{Class: ClassRecoverable, URL: fullURL, Message: "create request", Err: err}
	}
	if len(form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")
	if !c.loggingIn {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessToken())
	}

	start := c.now()
	resp, err := c.httpClient.Do(req)
	requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(path, "network_error").Inc()
		return nil, &APIError{Class: ClassRecoverable, URL: fullURL, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	// A 401 means the API user lacks access rights. Retrying or
	// refreshing cannot help within this call.
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &APIError{
			Class:      ClassFatal,
			StatusCode: resp.StatusCode,
			URL:        fullURL,
			Message:    "provided rest client does not have access rights for method",
		}
	}

	// Throttle headers are observed on every response. An exhausted
	// long global budget stops the call without retrying: the server
	// would certainly reject the next attempt.
	if c.session.cooldown.Observe(ratelimit.ParseWindow(resp.Header), c.now()) {
		c.logger.Error().Str("url", fullURL).Msg("Global throttling limit reached")
		return nil, throttled()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Class: ClassRecoverable, URL: fullURL, Message: "read response body", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Class:      ClassRecoverable,
			StatusCode: resp.StatusCode,
			URL:        fullURL,
			Message:    "could not reach api method",
		}
	}

	return body, nil
}

// buildURL assembles the endpoint URL with query parameters, appending
// the pagination overrides when set. List values are comma-joined by
// the callers before they reach this point.
func (c *Client) buildURL(path string, query url.Values) string {
	q := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if c.page > 0 {
		q.Set("page", strconv.Itoa(c.page))
	}
	if c.itemsPerPage > 0 {
		q.Set("itemsPerPage", strconv.Itoa(c.itemsPerPage))
	}

	u := c.session.Scheme() + "://" + strings.TrimSuffix(c.config.Domain, "/") + "/rest/" + strings.TrimPrefix(path, "/")
	if encoded := q.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

// cachedGet is call() with an optional read-through cache in front,
// used for reference data that does not change within a run. The
// pagination overrides participate in the cache key and are cleared on
// hits the same way call() clears them.
func (c *Client) cachedGet(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.cache == nil {
		return c.call(ctx, http.MethodGet, path, query, nil)
	}

	key := cache.Key{Endpoint: path, Query: query, Page: c.page, ItemsPerPage: c.itemsPerPage}
	if body, err := c.cache.Get(ctx, key); err == nil {
		c.logger.Debug().Str("endpoint", path).Msg("Serving response from cache")
		c.resetPagination()
		return body, nil
	} else if err != cache.ErrCacheMiss {
		c.logger.Warn().Err(err).Str("endpoint", path).Msg("Cache get error")
	}

	body, err := c.call(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, key, body, c.config.CacheTTL); err != nil {
		c.logger.Warn().Err(err).Str("endpoint", path).Msg("Failed to cache response")
	}
	return body, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}
