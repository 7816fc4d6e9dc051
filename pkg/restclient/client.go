package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/internal/logger"
	"github.com/goliatone/go-formbuilder/pkg/locale"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 64 << 10
)

// Client issues JSON requests against the API rooted at a base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	locale     locale.Locale
	token      func() string
	logger     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLocale sets the language sent with every request.
func WithLocale(l locale.Locale) Option {
	return func(c *Client) {
		if l.Valid() {
			c.locale = l
		}
	}
}

// WithToken sets a static bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		token = strings.TrimSpace(token)
		c.token = func() string { return token }
	}
}

// WithTokenSource resolves the bearer token per request, for sessions that
// refresh their credentials.
func WithTokenSource(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.token = fn
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		c.logger = logger.OrNop(l)
	}
}

// New constructs a client for baseURL.
func New(baseURL string, options ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, baseURL)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		locale:     locale.Default,
		token:      func() string { return "" },
		logger:     logger.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Locale returns the language the client sends.
func (c *Client) Locale() locale.Locale {
	return c.locale
}

// HTTPClient exposes the underlying client so option fetchers can share its
// transport and timeout.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// URL resolves path against the base URL without adding query parameters.
func (c *Client) URL(path string) string {
	u := *c.baseURL
	u.Path = u.Path + "/" + strings.TrimLeft(path, "/")
	return u.String()
}

// Get decodes the response of GET path into out. Query may be nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out)
}

// Patch sends body as JSON and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues DELETE path. Out may be nil.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, out)
}

// Do performs one request. Non-2xx responses yield a *StatusError; an empty
// or 204 response leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	reqURL := c.requestURL(path, query)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("restclient: encode body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("restclient: request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.locale.String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorw("api request failed", "method", method, "url", reqURL, "error", err)
		return fmt.Errorf("restclient: %s %s: %w", method, reqURL, err)
	}
	defer resp.Body.Close()

	c.logger.Debugw("api request",
		"method", method,
		"url", reqURL,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeStatusError(method, reqURL, resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("restclient: read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("restclient: decode %s %s: %w", method, reqURL, err)
	}
	return nil
}

func (c *Client) requestURL(path string, query url.Values) string {
	u, err := url.Parse(c.URL(path))
	if err != nil {
		u = &url.URL{Path: path}
	}
	values := u.Query()
	for key, vals := range query {
		for _, v := range vals {
			values.Add(key, v)
		}
	}
	values.Set("lang", c.locale.String())
	u.RawQuery = values.Encode()
	return u.String()
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

func decodeStatusError(method, reqURL string, resp *http.Response) error {
	statusErr := &StatusError{Method: method, URL: reqURL, StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload errorBody
	if json.Unmarshal(raw, &payload) == nil {
		statusErr.Message = payload.Message
		if statusErr.Message == "" {
			statusErr.Message = payload.Error
		}
		if len(payload.Errors) > 0 {
			statusErr.Errors = validation.Errors{}
			for key, messages := range payload.Errors {
				for _, msg := range messages {
					statusErr.Errors.Add(key, msg)
				}
			}
		}
	}
	return statusErr
}

// authorizedHTTPClient returns a copy of the HTTP client whose transport adds
// the bearer token, for collaborators that build their own requests.
func (c *Client) authorizedHTTPClient() *http.Client {
	clone := *c.httpClient
	base := clone.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	clone.Transport = &bearerTransport{base: base, token: c.token}
	return &clone
}

type bearerTransport struct {
	base  http.RoundTripper
	token func() string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.token()
	if token == "" || req.Header.Get("Authorization") != "" {
		return t.base.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", "Bearer "+token)
	return t.base.RoundTrip(clone)
}
