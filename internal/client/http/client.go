package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"time"

	"github.com/cyphera/gator-permissions/internal/apperror"
	"github.com/cyphera/gator-permissions/internal/client/retry"
	"github.com/cyphera/gator-permissions/internal/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	DefaultTimeout              = 10 * time.Second
	DefaultMaxResponseSizeBytes = 1 << 20
)

// ClientOption represents a function that can modify the HTTP client
type ClientOption func(*HTTPClient)

// Middleware represents a function that wraps an http.RoundTripper
type Middleware func(http.RoundTripper) http.RoundTripper

// HTTPError describes a non-successful HTTP response. It is carried as the cause of the
// classified error returned to callers.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
	Method     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d %s", e.Method, e.URL, e.StatusCode, e.Status)
}

// MetricsCollector defines an interface for collecting metrics
type MetricsCollector interface {
	RecordRequestDuration(method, path string, statusCode int, duration time.Duration)
	RecordRequestCount(method, path string, statusCode int)
	RecordRequestError(method, path string)
}

// Validatable is implemented by response types that cannot be expressed with struct tags
type Validatable interface {
	Validate() error
}

// HTTPClient fetches JSON documents from read-only data services
type HTTPClient struct {
	httpClient     *http.Client
	defaultHeaders map[string]string
	middlewares    []Middleware
	metrics        MetricsCollector
	validate       *validator.Validate
}

// FetchOptions bounds a single logical fetch
type FetchOptions struct {
	// Timeout aborts an in-flight attempt
	Timeout time.Duration
	// MaxResponseSizeBytes rejects larger bodies
	MaxResponseSizeBytes int64
	// Retry configures the retry policy; nil means one retry after one second
	Retry *retry.Options
	// IsRetryable overrides the retry predicate; nil retries ResourceUnavailable only
	IsRetryable retry.Predicate
}

// NewHTTPClient creates a new HTTPClient with the given options
func NewHTTPClient(options ...ClientOption) *HTTPClient {
	client := &HTTPClient{
		httpClient: &http.Client{},
		defaultHeaders: map[string]string{
			"Accept": "application/json",
		},
		metrics:  &NoopMetricsCollector{},
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, option := range options {
		option(client)
	}

	if len(client.middlewares) > 0 {
		transport := client.httpClient.Transport
		if transport == nil {
			transport = http.DefaultTransport
		}

		// Apply middlewares in reverse order so the first one is outermost
		for i := len(client.middlewares) - 1; i >= 0; i-- {
			transport = client.middlewares[i](transport)
		}
		client.httpClient.Transport = transport
	}

	return client
}

// WithHTTPClient replaces the underlying *http.Client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		c.httpClient = hc
	}
}

// WithDefaultHeader adds a default header to all requests
func WithDefaultHeader(key, value string) ClientOption {
	return func(c *HTTPClient) {
		c.defaultHeaders[key] = value
	}
}

// WithMiddleware adds a middleware to the client
func WithMiddleware(middleware Middleware) ClientOption {
	return func(c *HTTPClient) {
		c.middlewares = append(c.middlewares, middleware)
	}
}

// WithMetricsCollector sets the metrics collector
func WithMetricsCollector(collector MetricsCollector) ClientOption {
	return func(c *HTTPClient) {
		if collector != nil {
			c.metrics = collector
		}
	}
}

// FetchValidated GETs rawURL, decodes the JSON body into T and validates it.
// Every attempt is bounded by opts.Timeout and opts.MaxResponseSizeBytes; attempts
// are retried according to opts.Retry.
func FetchValidated[T any](ctx context.Context, c *HTTPClient, rawURL string, opts FetchOptions) (T, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxResponseSizeBytes <= 0 {
		opts.MaxResponseSizeBytes = DefaultMaxResponseSizeBytes
	}
	isRetryable := opts.IsRetryable
	if isRetryable == nil {
		isRetryable = retry.OnlyResourceUnavailable
	}

	return retry.Execute(ctx, func(ctx context.Context) (T, error) {
		var target T
		body, err := c.fetchOnce(ctx, rawURL, opts)
		if err != nil {
			return target, err
		}
		if err := json.Unmarshal(body, &target); err != nil {
			return target, apperror.Wrap(apperror.KindParseError, err, "failed to parse response body")
		}
		if err := c.validateResponse(target); err != nil {
			return target, apperror.Wrap(apperror.KindParseError, err, "invalid response structure")
		}
		return target, nil
	}, opts.Retry, isRetryable)
}

// fetchOnce performs a single bounded GET and returns the raw body
func (c *HTTPClient) fetchOnce(ctx context.Context, rawURL string, opts FetchOptions) ([]byte, error) {
	start := time.Now()
	path := requestPath(rawURL)

	attemptCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInvalidInput, err, "failed to create request")
	}
	for key, value := range c.defaultHeaders {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequestError(http.MethodGet, path)
		return nil, c.transportError(ctx, attemptCtx, err, rawURL, opts.Timeout)
	}
	defer resp.Body.Close()

	duration := time.Since(start)
	c.metrics.RecordRequestDuration(http.MethodGet, path, resp.StatusCode, duration)
	c.metrics.RecordRequestCount(http.MethodGet, path, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordRequestError(http.MethodGet, path)
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        rawURL,
			Method:     http.MethodGet,
		}
		logger.Log.Warn("HTTP error response",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", duration))
		return nil, classifyStatus(httpErr)
	}

	if resp.ContentLength > opts.MaxResponseSizeBytes {
		return nil, apperror.LimitExceeded("response size %d exceeds limit of %d bytes", resp.ContentLength, opts.MaxResponseSizeBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, opts.MaxResponseSizeBytes+1))
	if err != nil {
		return nil, c.transportError(ctx, attemptCtx, err, rawURL, opts.Timeout)
	}
	if int64(len(body)) > opts.MaxResponseSizeBytes {
		return nil, apperror.LimitExceeded("response body exceeds limit of %d bytes", opts.MaxResponseSizeBytes)
	}

	logger.Log.Debug("HTTP request successful",
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return body, nil
}

// transportError classifies failures that happened before a status line was read
func (c *HTTPClient) transportError(parent, attempt context.Context, err error, rawURL string, timeout time.Duration) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(attempt.Err(), context.DeadlineExceeded) {
		logger.Log.Warn("HTTP request timed out",
			zap.String("url", rawURL),
			zap.Duration("timeout", timeout))
		return apperror.Wrap(apperror.KindResourceUnavailable, err, fmt.Sprintf("request timed out after %s", timeout))
	}
	logger.Log.Error("HTTP request failed",
		zap.String("url", rawURL),
		zap.Error(err))
	return apperror.Wrap(apperror.KindResourceUnavailable, err, "http request failed")
}

func (c *HTTPClient) validateResponse(target interface{}) error {
	if v, ok := target.(Validatable); ok {
		return v.Validate()
	}
	val := reflect.ValueOf(target)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return errors.New("empty response")
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil
	}
	return c.validate.Struct(target)
}

// classifyStatus maps an HTTP status family onto the error taxonomy
func classifyStatus(httpErr *HTTPError) error {
	switch code := httpErr.StatusCode; {
	case code == http.StatusNotFound:
		return apperror.Wrap(apperror.KindResourceNotFound, httpErr, "resource not found")
	case code == http.StatusTooManyRequests, code == http.StatusRequestTimeout, code >= 500:
		return apperror.Wrap(apperror.KindResourceUnavailable, httpErr, "service unavailable")
	case code >= 400:
		return apperror.Wrap(apperror.KindInvalidInput, httpErr, "request rejected")
	default:
		return apperror.Wrap(apperror.KindResourceUnavailable, httpErr, "unexpected response status")
	}
}

func requestPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}

// NoopMetricsCollector is a metrics collector that does nothing
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordRequestDuration(method, path string, statusCode int, duration time.Duration) {
}
func (n *NoopMetricsCollector) RecordRequestCount(method, path string, statusCode int) {}
func (n *NoopMetricsCollector) RecordRequestError(method, path string)                 {}

// LoggingMiddleware creates a middleware that logs requests and responses
func LoggingMiddleware() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return &loggingRoundTripper{next: next}
	}
}

type loggingRoundTripper struct {
	next http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	logger.Log.Debug("HTTP request started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()))

	resp, err := l.next.RoundTrip(req)

	duration := time.Since(start)
	if err != nil {
		logger.Log.Debug("HTTP round trip failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err),
			zap.Duration("duration", duration))
		return resp, err
	}

	logger.Log.Debug("HTTP response received",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", duration))

	return resp, nil
}
