// Package tourapi is the data-access layer for the Korea Tourism Organization
// KorService2 API. It builds requests, bounds and retries attempts, and
// normalizes the upstream envelope into typed records.
package tourapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mytrip_backend/platform/logger"
	"mytrip_backend/platform/validator"
)

const (
	// DefaultBaseURL is the KorService2 root.
	DefaultBaseURL = "https://apis.data.go.kr/B551011/KorService2"
	// DefaultMobileApp is sent as MobileApp on every request.
	DefaultMobileApp = "MyTrip"
)

// Client calls KorService2. It is safe for concurrent use; the only state
// shared between calls is the read-only credential and the collectors.
type Client struct {
	cred      Credential
	baseURL   string
	mobileApp string
	timeout   time.Duration
	transport Transport
	retry     RetryPolicy
	log       *logger.Logger
	metrics   *Metrics
	validate  *validator.Validator
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithMobileApp overrides the MobileApp identifier.
func WithMobileApp(name string) Option {
	return func(c *Client) {
		if name != "" {
			c.mobileApp = name
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport replaces the HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithHTTPClient uses client for the default transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.transport = NewHTTPTransport(client)
	}
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMetrics sets the collectors.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithValidator shares a validator instance.
func WithValidator(v *validator.Validator) Option {
	return func(c *Client) {
		if v != nil {
			c.validate = v
		}
	}
}

// New returns a Client for cred. An empty credential is a *ConfigError.
func New(cred Credential, opts ...Option) (*Client, error) {
	if strings.TrimSpace(string(cred)) == "" {
		return nil, &ConfigError{Message: "tour API client needs a non-empty credential"}
	}

	c := &Client{
		cred:      cred,
		baseURL:   DefaultBaseURL,
		mobileApp: DefaultMobileApp,
		timeout:   DefaultTimeout,
		transport: NewHTTPTransport(nil),
		retry:     DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	if c.validate == nil {
		c.validate = validator.New()
	}
	c.log = c.log.WithComponent("tourapi")

	return c, nil
}

// fetch runs build, send, normalize and decode under the retry policy.
// decode may be nil.
func (c *Client) fetch(ctx context.Context, req *apiRequest, decode func(*Normalized) error) (*Normalized, error) {
	reqURL := req.buildURL(c.baseURL, c.cred, c.mobileApp)
	endpoint := strings.TrimLeft(req.endpoint, "/")
	log := c.log.WithContext(ctx)

	policy := c.retry
	next := policy.OnRetry
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		c.metrics.recordRetry(endpoint)
		log.Warn("tour api call failed, retrying",
			slog.String("endpoint", endpoint),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", policy.MaxAttempts),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if next != nil {
			next(attempt, delay, err)
		}
	}

	return Retry(ctx, policy, func(ctx context.Context, attempt int) (*Normalized, error) {
		start := time.Now()
		n, err := c.attempt(ctx, log, endpoint, reqURL)
		if err == nil && decode != nil {
			if err = decode(n); err != nil {
				n = nil
				logDecodeFailure(log, endpoint, c.cred, err)
			}
		}
		elapsed := time.Since(start)
		c.metrics.recordAttempt(endpoint, err, elapsed)
		log.UpstreamAttempt(endpoint, attempt+1, outcome(err), elapsed)
		return n, err
	})
}

func (c *Client) attempt(ctx context.Context, log *logger.Logger, endpoint, reqURL string) (*Normalized, error) {
	res, err := c.transport.Send(ctx, reqURL, c.timeout)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			log.Error("tour api http error",
				slog.String("endpoint", endpoint),
				slog.Int("status", httpErr.Status),
				slog.String("url", c.cred.redact(reqURL)),
				slog.String("body", c.cred.redact(httpErr.Excerpt)),
			)
		}
		return nil, err
	}

	n, err := Normalize(res.Body)
	if err != nil {
		var authErr *AuthError
		var parseErr *ParseError
		switch {
		case errors.As(err, &authErr):
			log.Error("tour api rejected credential",
				slog.String("endpoint", endpoint),
				slog.String("result_code", authErr.Code),
				slog.String("result_msg", authErr.Message),
				slog.String("url", c.cred.redact(reqURL)),
				slog.String("hint", "check "+serverKeyEnv+" or "+publicKeyEnv),
			)
		case errors.As(err, &parseErr):
			log.Error("tour api response could not be parsed",
				slog.String("endpoint", endpoint),
				slog.String("reason", parseErr.Reason),
				slog.String("body", c.cred.redact(parseErr.Excerpt)),
			)
		default:
			log.Error("tour api error",
				slog.String("endpoint", endpoint),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	c.metrics.recordShape(n.Shape)
	if n.Shape == ShapeUnknown {
		log.Warn("tour api body in unrecognized layout",
			slog.String("endpoint", endpoint),
			slog.String("body", c.cred.redact(n.Diagnostic)),
		)
	}
	return n, nil
}

func logDecodeFailure(log *logger.Logger, endpoint string, cred Credential, err error) {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		log.Error("tour api records could not be decoded", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		return
	}
	log.Error("tour api records could not be decoded",
		slog.String("endpoint", endpoint),
		slog.String("reason", parseErr.Reason),
		slog.String("item", cred.redact(parseErr.Excerpt)),
	)
}

func (c *Client) validateParams(op string, params any) error {
	if err := c.validate.Struct(params); err != nil {
		return &ValidationError{Op: op, Fields: validator.FieldErrors(err)}
	}
	return nil
}
