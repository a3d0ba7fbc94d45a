package tourapi

import (
	"fmt"
	"strings"
	"time"
)

// ConfigError reports a missing or unusable credential. It is raised before
// any request is built and is never retried.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return "tourapi config: " + e.Message }

// ValidationError reports caller-supplied parameters that failed local
// validation. No request was sent.
type ValidationError struct {
	Op     string
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: invalid parameters", e.Op)
	}
	return fmt.Sprintf("%s: invalid parameters: %s", e.Op, strings.Join(e.Fields, ", "))
}

// TimeoutError reports that a single attempt exceeded its bounded wait.
type TimeoutError struct {
	Endpoint string
	Timeout  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: request timed out after %s", e.Endpoint, e.Timeout)
}

// HTTPError reports a non-2xx transport status.
type HTTPError struct {
	Endpoint   string
	Status     int
	StatusText string
	Excerpt    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s: upstream status %d %s", e.Endpoint, e.Status, e.StatusText)
}

// NetworkError reports a failure to reach the upstream at all.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError reports a body that is not JSON or does not carry the expected
// envelope. Excerpt holds a bounded prefix of the offending text.
type ParseError struct {
	Reason  string
	Excerpt string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse response: %s: %v", e.Reason, e.Err)
	}
	return "parse response: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// AuthError reports a result code from the credential-rejection family.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("upstream rejected credential: %s (code %s)", e.Message, e.Code)
}

// APIError reports any other non-success result code.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream error: %s (code %s)", e.Message, e.Code)
}

// UnavailableError reports a request short-circuited by the breaker.
type UnavailableError struct {
	Endpoint string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: upstream temporarily unavailable: %v", e.Endpoint, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// outcome names an error for logs and metric labels.
func outcome(err error) string {
	switch err.(type) {
	case nil:
		return "success"
	case *TimeoutError:
		return "timeout"
	case *HTTPError:
		return "http_error"
	case *NetworkError:
		return "network_error"
	case *ParseError:
		return "parse_error"
	case *AuthError:
		return "auth_error"
	case *APIError:
		return "api_error"
	case *UnavailableError:
		return "unavailable"
	default:
		return "error"
	}
}
