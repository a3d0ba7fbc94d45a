package tourapi

import (
	"mytrip_backend/platform/config"
	"mytrip_backend/platform/logger"
)

// NewFromConfig resolves the credential and builds a Client with the
// transport, breaker and retry policy the configuration asks for.
func NewFromConfig(cfg config.TourAPIConfig, log *logger.Logger, metrics *Metrics, opts ...Option) (*Client, error) {
	cred, err := ResolveCredential(cfg)
	if err != nil {
		return nil, err
	}

	var transport Transport = NewHTTPTransport(nil)
	if cfg.IsTourAPIBreakerEnabled() {
		transport = NewBreakerTransport(transport, "korservice2", log, metrics)
	}

	policy := DefaultRetryPolicy()
	policy.MaxAttempts = cfg.GetTourAPIMaxAttempts()
	if cfg.IsTourAPIFailFastAuth() {
		policy.Retryable = RetryUnlessAuth
	}

	base := []Option{
		WithBaseURL(cfg.GetTourAPIBaseURL()),
		WithMobileApp(cfg.GetTourAPIMobileApp()),
		WithTimeout(cfg.GetTourAPITimeout()),
		WithTransport(transport),
		WithRetryPolicy(policy),
		WithLogger(log),
		WithMetrics(metrics),
	}
	return New(cred, append(base, opts...)...)
}
