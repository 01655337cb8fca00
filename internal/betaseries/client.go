package betaseries

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"betarank/internal/logging"
)

const (
	// DefaultBaseURL is the public BetaSeries API endpoint.
	DefaultBaseURL = "https://api.betaseries.com"
	// APIVersion is sent in X-BetaSeries-Version on every request.
	APIVersion = "3.0"
	// DefaultClientID is sent as the User-Agent.
	DefaultClientID = "betarank/1.0"
	// MaxListLimit is the largest page the list endpoints serve.
	MaxListLimit = 1000

	defaultHTTPTimeout = 30 * time.Second
	maxRedirects       = 10
)

// Observer receives a callback for every attempt and every scheduled retry.
type Observer interface {
	ObserveAttempt(endpoint string, outcome Outcome, latency time.Duration)
	ObserveRetry(endpoint string, delay time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveAttempt(string, Outcome, time.Duration) {}
func (nopObserver) ObserveRetry(string, time.Duration)            {}

// Client talks to the BetaSeries API.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	policy     RetryPolicy
	sleeper    func(time.Duration)
	limiter    *rate.Limiter
	observer   Observer
	logger     *slog.Logger

	accessToken string
	clientID    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/"); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAccessToken adds an Authorization bearer header to every request.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = strings.TrimSpace(token)
	}
}

// WithClientID overrides the User-Agent sent to the service.
func WithClientID(id string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			c.clientID = trimmed
		}
	}
}

// WithRetryPolicy overrides the retry bound and base delay.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.policy = policy
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// WithRateLimit throttles attempts to rps requests per second. A
// non-positive rps disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithObserver registers a hook for attempt and retry events.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a BetaSeries client authenticated with apiKey.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("betaseries api key required")
	}
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		policy:     DefaultRetryPolicy(),
		observer:   nopObserver{},
		logger:     logging.NewNop(),
		clientID:   DefaultClientID,
	}
	for _, opt := range opts {
		opt(client)
	}
	if _, err := url.ParseRequestURI(client.baseURL); err != nil {
		return nil, fmt.Errorf("parse betaseries base url: %w", err)
	}
	if client.httpClient.CheckRedirect == nil {
		limited := *client.httpClient
		limited.CheckRedirect = limitRedirects
		client.httpClient = &limited
	}

	client.headers = http.Header{}
	client.headers.Set("X-BetaSeries-Version", APIVersion)
	client.headers.Set("X-BetaSeries-Key", apiKey)
	client.headers.Set("User-Agent", client.clientID)
	client.headers.Set("Accept", "application/json")
	if client.accessToken != "" {
		client.headers.Set("Authorization", "Bearer "+client.accessToken)
	}
	return client, nil
}

// Policy returns the retry policy in effect.
func (c *Client) Policy() RetryPolicy {
	return c.policy
}

// WithPolicy returns a shallow copy of c that uses policy instead.
func (c *Client) WithPolicy(policy RetryPolicy) *Client {
	clone := *c
	clone.policy = policy
	return &clone
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	target := c.baseURL + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	body, err := c.execute(ctx, endpoint, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &DecodeError{URL: target, Err: err}
	}
	return nil
}

func limitRedirects(_ *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, len(via))
	}
	return nil
}

// send performs one GET. A non-nil error means the transport failed; HTTP
// error statuses are reported through status.
func (c *Client) send(ctx context.Context, target string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.headers {
		req.Header[key] = append([]string(nil), values...)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
