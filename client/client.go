// Package client is the Go client for the Surplus Market API. All outbound
// calls flow through one request pipeline that injects the session credential
// and converts authorization failures into a single typed event, so no call
// site handles expired credentials individually.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/surplusmarket/client-go/logging"
	"github.com/surplusmarket/client-go/resilience"
)

// DefaultBaseURL is used when no base URL is configured. Override with the
// SURPLUS_API_URL environment variable or WithBaseURL.
const DefaultBaseURL = "http://localhost:5000/api"

// Client talks to the Surplus Market API. Construct with New; endpoint
// groups are exposed as fields.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger

	authExpiredMu sync.RWMutex
	onAuthExpired func()

	Auth    *AuthService
	Cart    *CartService
	Orders  *OrderService
	Vendor  *VendorService
	Catalog *CatalogService
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL    string
	httpClient *http.Client
	transport  http.RoundTripper
	logger     logging.Logger
	breaker    *resilience.CircuitBreaker
	traced     bool
	timeout    time.Duration
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithHTTPClient supplies a pre-configured HTTP client. Its transport is
// still wrapped by the request pipeline.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger attaches a logger for diagnostic output.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCircuitBreaker protects the transport with the given breaker.
func WithCircuitBreaker(cb *resilience.CircuitBreaker) Option {
	return func(o *options) { o.breaker = cb }
}

// WithTelemetry wraps the transport with otelhttp client spans.
func WithTelemetry() Option {
	return func(o *options) { o.traced = true }
}

// WithTimeout sets the per-request timeout. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// New creates a client whose requests carry the credential provided by
// creds. The credential source is read on every request, so a session
// established after construction is picked up automatically.
func New(creds CredentialSource, opts ...Option) *Client {
	o := &options{
		baseURL: DefaultBaseURL,
		logger:  logging.NoOpLogger{},
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}
	httpClient.Transport = buildTransport(httpClient.Transport, creds, o.breaker, o.traced)

	c := &Client{
		baseURL:    strings.TrimRight(o.baseURL, "/"),
		httpClient: httpClient,
		logger:     o.logger,
	}
	c.Auth = &AuthService{c: c}
	c.Cart = &CartService{c: c}
	c.Orders = &OrderService{c: c}
	c.Vendor = &VendorService{c: c}
	c.Catalog = &CatalogService{c: c}
	return c
}

// SetAuthExpiredHandler registers the single callback fired when any call is
// answered with an authorization failure. The pipeline performs no
// navigation and no session mutation itself; the handler owns both.
func (c *Client) SetAuthExpiredHandler(fn func()) {
	c.authExpiredMu.Lock()
	c.onAuthExpired = fn
	c.authExpiredMu.Unlock()
}

func (c *Client) notifyAuthExpired() {
	c.authExpiredMu.RLock()
	fn := c.onAuthExpired
	c.authExpiredMu.RUnlock()
	if fn != nil {
		fn()
	}
}

// doJSON issues a request with an optional JSON body and decodes a JSON
// response into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, op, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &APIError{Op: op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, op, method, path, body, "application/json", out)
}

func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := newRequest(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &APIError{Op: op, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.send(req, op, out)
}

func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// send is the inbound hook of the request pipeline. Every response passes
// through here: authorization failures are converted into ErrAuthExpired and
// the registered handler is notified exactly once, with the original
// response body discarded. All other responses pass through to the caller.
func (c *Client) send(req *http.Request, op string, out interface{}) error {
	c.logger.Debug("api request", map[string]interface{}{
		"operation": op,
		"method":    req.Method,
		"path":      req.URL.Path,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", map[string]interface{}{
			"operation": op,
			"error":     err.Error(),
		})
		return &APIError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// Discard the body: the original response is never delivered to
		// the caller once the credential is known to be expired.
		_, _ = io.Copy(io.Discard, resp.Body)
		c.logger.Info("credential rejected by server", map[string]interface{}{
			"operation": op,
			"status":    resp.StatusCode,
		})
		c.notifyAuthExpired()
		return &APIError{Op: op, Status: resp.StatusCode, Err: ErrAuthExpired}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: readServerMessage(resp.Body),
			Err:     ErrRemoteRejected,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// readServerMessage extracts the server's error message, verbatim, from the
// conventional {"error": "..."} body. Falls back to raw text.
func readServerMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return ""
	}
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil {
		if envelope.Error != "" {
			return envelope.Error
		}
		if envelope.Message != "" {
			return envelope.Message
		}
	}
	return strings.TrimSpace(string(data))
}

// multipartBody serializes ordered form fields plus one binary part.
func multipartBody(fields []formField, partName, filename string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile(partName, filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

type formField struct {
	name  string
	value string
}
