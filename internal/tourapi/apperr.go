package tourapi

import (
	"context"
	"errors"

	"mytrip_backend/platform/apperr"
)

// AppError maps an upstream failure onto a domain error for the HTTP layer.
// Errors that already are *apperr.Error pass through; nil stays nil.
func AppError(err error) error {
	if err == nil {
		return nil
	}

	var domainErr *apperr.Error
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var (
		validationErr  *ValidationError
		configErr      *ConfigError
		authErr        *AuthError
		apiErr         *APIError
		timeoutErr     *TimeoutError
		httpErr        *HTTPError
		networkErr     *NetworkError
		parseErr       *ParseError
		unavailableErr *UnavailableError
	)

	switch {
	case errors.As(err, &validationErr):
		return apperr.Wrap(apperr.KindValidation, "invalid parameters", err).
			WithOp(validationErr.Op).
			WithCode("invalid_parameters").
			WithDetails(validationErr.Fields)
	case errors.As(err, &configErr):
		return apperr.Wrap(apperr.KindInternal, "tour API is not configured", err).WithCode("config")
	case errors.As(err, &authErr):
		return apperr.Wrap(apperr.KindUpstreamAuth, "tour API rejected the service key", err).
			WithCode("upstream_auth").
			WithDetails(map[string]string{"resultCode": authErr.Code})
	case errors.As(err, &apiErr):
		return apperr.Wrap(apperr.KindUpstream, "tour API returned an error", err).
			WithCode("upstream_error").
			WithDetails(map[string]string{"resultCode": apiErr.Code, "resultMsg": apiErr.Message})
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.KindTimeout, "tour API did not respond in time", err).WithCode("upstream_timeout")
	case errors.As(err, &unavailableErr):
		return apperr.Wrap(apperr.KindUnavailable, "tour API is temporarily unavailable", err).WithCode("upstream_unavailable")
	case errors.As(err, &httpErr):
		return apperr.Wrap(apperr.KindUpstream, "tour API request failed", err).
			WithCode("upstream_http").
			WithDetails(map[string]int{"status": httpErr.Status})
	case errors.As(err, &networkErr):
		return apperr.Wrap(apperr.KindUpstream, "tour API is unreachable", err).WithCode("upstream_network")
	case errors.As(err, &parseErr):
		return apperr.Wrap(apperr.KindUpstream, "tour API returned an unreadable response", err).WithCode("upstream_parse")
	case errors.Is(err, context.Canceled):
		return apperr.Wrap(apperr.KindBadRequest, "request cancelled", err).WithCode("cancelled")
	default:
		return apperr.Wrap(apperr.KindInternal, "unexpected error", err)
	}
}
