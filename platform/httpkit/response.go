// Package httpkit holds the gin middleware and the error response format
// shared by every module.
package httpkit

import (
	"errors"
	"net/http"

	"mytrip_backend/platform/apperr"
	"mytrip_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error     string      `json:"error"`
	Code      string      `json:"code,omitempty"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details, RequestID: RequestIDFrom(c)})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// If the error chain holds a *apperr.Error, its Kind determines the status
// code. Otherwise it is a 500 with a generic message.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		status := domainErr.HTTPStatus()
		if status >= http.StatusInternalServerError {
			logFor(c).Error("request failed",
				"status", status,
				"kind", domainErr.Kind.String(),
				"code", domainErr.Code,
				"error", err.Error(),
			)
		}
		c.JSON(status, ErrorResponse{
			Error:     domainErr.Message,
			Code:      domainErr.Code,
			Details:   domainErr.Details,
			RequestID: RequestIDFrom(c),
		})
		return true
	}

	logFor(c).Error("unhandled error", "error", err.Error())
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:     "internal server error",
		RequestID: RequestIDFrom(c),
	})
	return true
}

const contextLoggerKey = "logger"

// SetLogger stores the request-scoped logger for HandleError.
func SetLogger(c *gin.Context, log *logger.Logger) {
	c.Set(contextLoggerKey, log)
}

func logFor(c *gin.Context) *logger.Logger {
	if v, ok := c.Get(contextLoggerKey); ok {
		if log, ok := v.(*logger.Logger); ok {
			return log
		}
	}
	return logger.Nop()
}
