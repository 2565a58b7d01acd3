package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	errs "github.com/jrsteele09/riskdesk/internal/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the gateway every backend service sits behind.
	DefaultBaseURL = "http://localhost:8080/api"
	defaultTimeout = 15 * time.Second

	headerRequestID = "X-Request-Id"
	headerUserRole  = "X-User-Role"
	headerUserID    = "X-User-Id"

	maxBodyBytes = 4 << 20
)

// Client talks to the loan-risk backend. Unauthenticated calls (login, logout) live here,
// everything else goes through a SessionClient obtained from WithSession.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	requestID  func() string
	logger     zerolog.Logger
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per request timeout (default 15s)
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithRateLimit bounds outgoing requests per second. Zero or less disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRequestIDs sets the generator for X-Request-Id (default random UUIDs)
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		c.requestID = fn
	}
}

// WithLogger sets the client's logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, options ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, errors.New("[apiclient New] base url must be http or https")
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		requestID:  uuid.NewString,
		logger:     log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		return nil, errors.New("[apiclient New] http client must not be nil")
	}
	return c, nil
}

// BaseURL returns the normalized base url.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call before it is bound to a session.
type request struct {
	method string
	path   string
	body   any
	header http.Header
}

func (c *Client) newRequest(ctx context.Context, r request) (*http.Request, error) {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, errs.Wrapf(err, "marshal %s %s", r.method, r.path)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		return nil, errs.Wrapf(err, "create request %s %s", r.method, r.path)
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, c.requestID())
	for key, values := range r.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return req, nil
}

// send executes req and returns the body of a 2xx response.
func (c *Client) send(httpClient *http.Client, req *http.Request) (*http.Response, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, nil, errs.Wrapf(err, "rate limit %s %s", req.Method, req.URL.Path)
		}
	}

	started := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, errs.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, errs.Wrapf(err, "read %s %s", req.Method, req.URL.Path)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Str("requestId", req.Header.Get(headerRequestID)).
		Dur("elapsed", time.Since(started)).
		Msg("Backend call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, data, newStatusError(resp.StatusCode, data)
	}
	return resp, data, nil
}

// decodeJSON decodes a JSON success body into out. A body that is not JSON is ErrInvalidResponse.
func decodeJSON(resp *http.Response, data []byte, out any) error {
	if !isJSON(resp.Header.Get("Content-Type")) {
		return errs.Wrapf(errs.ErrInvalidResponse, "expected JSON from %s, got %q", resp.Request.URL.Path, resp.Header.Get("Content-Type"))
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errs.Wrapf(errs.ErrInvalidResponse, "decode %s: %v", resp.Request.URL.Path, err)
	}
	return nil
}

// decodeList is decodeJSON for collection endpoints, where an empty body means no items.
func decodeList[T any](resp *http.Response, data []byte) ([]T, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}
	var items []T
	if err := decodeJSON(resp, data, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
