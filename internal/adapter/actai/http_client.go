package actai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"actai-dashboard/internal/domain"
	"actai-dashboard/internal/ports"
)

// DefaultBaseURL is where the ActAI backend listens in local setups.
const DefaultBaseURL = "http://localhost:8003/api"

var (
	_ ports.AuthAPI    = (*Client)(nil)
	_ ports.PlanAPI    = (*Client)(nil)
	_ ports.TaskAPI    = (*Client)(nil)
	_ ports.AudioAPI   = (*Client)(nil)
	_ ports.CheckinAPI = (*Client)(nil)
)

// Client implements the ports.*API interfaces against the ActAI REST API.
type Client struct {
	baseURL string
	tokens  ports.TokenSource
	http    *http.Client
	limiter *rate.Limiter
	metrics *Metrics
	log     *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (30s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
// Zero keeps the 30s default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing requests at rps per second with the given burst.
// A non-positive rps disables limiting.
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

// WithMetrics records request metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, tokens ports.TokenSource, log *zap.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request describes a single API call. endpoint is the route template used
// for logs and metrics, e.g. "PATCH /tasks/{id}/status".
type request struct {
	method      string
	path        string
	endpoint    string
	query       url.Values
	body        io.Reader
	contentType string
	public      bool
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(b), nil
}

// do sends r and returns the response when the status is 2xx. The caller
// owns the returned body.
func (c *Client) do(ctx context.Context, r request) (*http.Response, error) {
	u, err := url.Parse(c.baseURL + r.path)
	if err != nil {
		return nil, err
	}
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if !r.public {
		if c.tokens == nil {
			return nil, domain.ErrNoSession
		}
		token, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Endpoint: r.endpoint, Err: err}
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.observe(r.method, r.endpoint, 0, "transport_error", time.Since(start))
		c.log.Warn("actai request failed", zap.String("endpoint", r.endpoint), zap.Error(err))
		return nil, &TransportError{Endpoint: r.endpoint, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.metrics.observe(r.method, r.endpoint, resp.StatusCode, "api_error", time.Since(start))
		apiErr := &APIError{Endpoint: r.endpoint, StatusCode: resp.StatusCode, Detail: parseDetail(body)}
		if resp.StatusCode == http.StatusNotFound {
			c.log.Debug("actai resource not found", zap.String("endpoint", r.endpoint))
		} else {
			c.log.Warn("actai request rejected", zap.String("endpoint", r.endpoint), zap.Int("status", resp.StatusCode), zap.String("detail", apiErr.Detail))
		}
		return nil, apiErr
	}
	c.metrics.observe(r.method, r.endpoint, resp.StatusCode, "ok", time.Since(start))
	c.log.Debug("actai request", zap.String("endpoint", r.endpoint), zap.Int("status", resp.StatusCode), zap.Duration("dur", time.Since(start)))
	return resp, nil
}

// doJSON sends r and decodes a JSON response into out (when out is non-nil).
func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	resp, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		return fmt.Errorf("actai: %s: %w: %w", r.endpoint, domain.ErrMalformedResponse, err)
	}
	return nil
}
