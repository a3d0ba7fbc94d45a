// Package apperr provides domain error types with HTTP status mapping.
// Services return these typed errors and platform/httpkit turns them into
// responses. Upstream failures have their own kinds so a 502 from the tour
// API is never reported as our own 500.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource was not found.
	KindNotFound
	// KindValidation indicates invalid input data.
	KindValidation
	// KindBadRequest indicates a malformed request or one the caller abandoned.
	KindBadRequest
	// KindInternal indicates a fault on our side, such as missing configuration.
	KindInternal
	// KindUpstream indicates the upstream API failed or answered with an error.
	KindUpstream
	// KindUpstreamAuth indicates the upstream API rejected our credential.
	KindUpstreamAuth
	// KindTimeout indicates the upstream API did not answer in time.
	KindTimeout
	// KindUnavailable indicates the upstream is temporarily not being called.
	KindUnavailable
)

var kindInfo = map[Kind]struct {
	name   string
	status int
}{
	KindUnknown:      {"unknown", http.StatusInternalServerError},
	KindNotFound:     {"not_found", http.StatusNotFound},
	KindValidation:   {"validation", http.StatusBadRequest},
	KindBadRequest:   {"bad_request", http.StatusBadRequest},
	KindInternal:     {"internal", http.StatusInternalServerError},
	KindUpstream:     {"upstream", http.StatusBadGateway},
	KindUpstreamAuth: {"upstream_auth", http.StatusBadGateway},
	KindTimeout:      {"timeout", http.StatusGatewayTimeout},
	KindUnavailable:  {"unavailable", http.StatusServiceUnavailable},
}

func (k Kind) String() string {
	if info, ok := kindInfo[k]; ok {
		return info.name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	if info, ok := kindInfo[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Error is a domain error with a typed Kind for HTTP mapping.
type Error struct {
	Kind    Kind
	Code    string      // machine-readable, shown to clients
	Message string      // human-readable, shown to clients
	Op      string      // operation that failed, for logs
	Err     error       // cause, never shown to clients
	Details interface{} // optional structured payload
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the response status for the error.
func (e *Error) HTTPStatus() int {
	return e.Kind.Status()
}

// New creates an error without a cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp sets the operation and returns e.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithCode sets the client-facing code and returns e.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithDetails sets the structured payload and returns e.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message).WithCode("not_found")
}

// GetKind returns the kind of the first *Error in the chain, or KindUnknown.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
