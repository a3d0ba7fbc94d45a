package tourapi

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"time"
)

const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a response is read into memory.
	maxBodySize = 8 << 20
)

// RawResult is a completed 2xx exchange.
type RawResult struct {
	Status int
	Body   []byte
}

// Transport issues one GET and reports either a body or a definitive
// termination reason: *HTTPError, *TimeoutError or *NetworkError. A
// cancelled parent context is returned as ctx.Err().
type Transport interface {
	Send(ctx context.Context, reqURL string, timeout time.Duration) (*RawResult, error)
}

// HTTPTransport is the net/http Transport.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport returns a transport using client, or a fresh client when
// nil. Deadlines come from the per-call timeout, not from client.Timeout.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{client: client}
}

// Send performs the request. The attempt deadline is always released before
// returning.
func (t *HTTPTransport) Send(ctx context.Context, reqURL string, timeout time.Duration) (*RawResult, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, &NetworkError{Endpoint: endpointName(reqURL), Err: stripURL(err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, attemptCtx, reqURL, timeout, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, classifyTransportError(ctx, attemptCtx, reqURL, timeout, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPError{
			Endpoint:   endpointName(reqURL),
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Excerpt:    excerpt(body),
		}
	}

	return &RawResult{Status: resp.StatusCode, Body: body}, nil
}

func classifyTransportError(parent, attempt context.Context, reqURL string, timeout time.Duration, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}

	if errors.Is(attempt.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Endpoint: endpointName(reqURL), Timeout: timeout}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Endpoint: endpointName(reqURL), Timeout: timeout}
	}

	return &NetworkError{Endpoint: endpointName(reqURL), Err: stripURL(err)}
}

// stripURL drops the *url.Error wrapper, whose message repeats the request
// URL and with it the service key.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// endpointName returns the last path segment of reqURL, e.g. "areaCode2".
func endpointName(reqURL string) string {
	u, err := url.Parse(reqURL)
	if err != nil || u.Path == "" {
		return "unknown"
	}
	return path.Base(u.Path)
}
