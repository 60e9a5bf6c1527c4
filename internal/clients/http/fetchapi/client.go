// Package fetchapi is a typed client for the dog adoption REST service. Authentication is cookie based:
// the session cookie set by Login is kept in the client's cookie jar and sent with every later call.
package fetchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	apperrors "github.com/Apurer/go-dog-finder/internal/shared/errors"
)

const (
	// DefaultBaseURL is the public adoption service.
	DefaultBaseURL = "https://frontend-take-home-service.fetch.com"
	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second
	// SessionCookie is the cookie the service uses to carry the session.
	SessionCookie = "fetch-access-token"
	// RequestIDHeader correlates client logs with server logs.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 4 << 10
)

// Client calls the adoption service. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *slog.Logger
	requestID func() string
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default instrumented client. A cookie jar is attached when it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit throttles outbound calls. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger injects a slog logger for request level debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestIDs overrides the X-Request-ID generator.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// New builds a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("fetch api base URL is required")
	}
	c := &Client{
		baseURL:   baseURL,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		requestID: uuid.NewString,
		timeout:   DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("build cookie jar: %w", err)
	}
	if c.http == nil {
		c.http = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	} else {
		hc := *c.http
		c.http = &hc
	}
	if c.http.Jar == nil {
		c.http.Jar = jar
	}
	if c.http.Timeout == 0 {
		c.http.Timeout = c.timeout
	}
	return c, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Login posts the credentials; on success the session cookie is stored in the jar.
func (c *Client) Login(ctx context.Context, name, email string) error {
	_, err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", loginRequest{Name: name, Email: email}, nil)
	return err
}

// Logout ends the server side session.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, "logout", http.MethodPost, "/auth/logout", "", nil, nil)
	return err
}

// Breeds lists every breed name the catalog knows.
func (c *Client) Breeds(ctx context.Context) ([]string, error) {
	var breeds []string
	if _, err := c.do(ctx, "breeds", http.MethodGet, "/dogs/breeds", "", nil, &breeds); err != nil {
		return nil, err
	}
	return breeds, nil
}

// Search runs one page of a dog search and returns ids in the service's order.
func (c *Client) Search(ctx context.Context, params SearchParams) (SearchResult, error) {
	query, err := encodeSearchQuery(params)
	if err != nil {
		return SearchResult{}, err
	}
	var result SearchResult
	if _, err := c.do(ctx, "search", http.MethodGet, "/dogs/search", query, nil, &result); err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

// Dogs hydrates ids into records. The service caps a single call at 100 ids.
func (c *Client) Dogs(ctx context.Context, ids []string) ([]Dog, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var dogs []Dog
	if _, err := c.do(ctx, "dogs", http.MethodPost, "/dogs", "", ids, &dogs); err != nil {
		return nil, err
	}
	return dogs, nil
}

// Match asks the service to pick one id from ids.
func (c *Client) Match(ctx context.Context, ids []string) (string, error) {
	var m Match
	if _, err := c.do(ctx, "match", http.MethodPost, "/dogs/match", "", ids, &m); err != nil {
		return "", err
	}
	return m.Match, nil
}

func (c *Client) do(ctx context.Context, op, method, path, rawQuery string, body, out any) (int, error) {
	if c == nil || c.http == nil {
		return 0, errors.New("fetch api client not configured")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("%w: %s: rate limit wait: %w", ErrTransport, op, err)
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return 0, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := c.requestID()
	req.Header.Set(RequestIDHeader, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "fetch api request failed",
			slog.String("op", op), slog.String("request_id", reqID), slog.String("error", err.Error()))
		return 0, fmt.Errorf("%w: %s: %w", ErrTransport, op, err)
	}
	defer resp.Body.Close()

	c.logger.LogAttrs(ctx, slog.LevelDebug, "fetch api request",
		slog.String("op", op),
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.String("request_id", reqID),
		slog.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, fmt.Errorf("%s: %w", op, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return resp.StatusCode, statusError(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %s: %w", ErrDecode, op, err)
	}
	return resp.StatusCode, nil
}

func statusError(op string, resp *http.Response) *StatusError {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &StatusError{Op: op, StatusCode: resp.StatusCode}
	if problem, ok := apperrors.DecodeProblem(resp.Header.Get("Content-Type"), raw); ok {
		se.Problem = &problem
		return se
	}
	se.Body = strings.TrimSpace(string(raw))
	return se
}
