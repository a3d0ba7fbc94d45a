package tourapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"mytrip_backend/platform/logger"
)

// BreakerTransport wraps a Transport with a circuit breaker. While the
// breaker is open, Send fails with *UnavailableError without touching the
// network.
//
// Breaker configuration:
//   - opens at a failure rate >= 60% with at least 10 requests
//   - counts reset every minute while closed
//   - 30 seconds open before probing again
//   - 3 probe requests in half-open state
type BreakerTransport struct {
	next Transport
	cb   *gobreaker.CircuitBreaker[*RawResult]
	name string
}

// NewBreakerTransport wraps next. metrics may be nil.
func NewBreakerTransport(next Transport, name string, log *logger.Logger, metrics *Metrics) *BreakerTransport {
	if log == nil {
		log = logger.Nop()
	}
	metrics.setBreakerState(name, stateToFloat(gobreaker.StateClosed))

	cb := gobreaker.NewCircuitBreaker[*RawResult](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			metrics.setBreakerState(name, stateToFloat(to))
		},
		IsSuccessful: breakerSuccess,
	})

	return &BreakerTransport{next: next, cb: cb, name: name}
}

// Send forwards to the wrapped transport through the breaker.
func (b *BreakerTransport) Send(ctx context.Context, reqURL string, timeout time.Duration) (*RawResult, error) {
	res, err := b.cb.Execute(func() (*RawResult, error) {
		return b.next.Send(ctx, reqURL, timeout)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &UnavailableError{Endpoint: endpointName(reqURL), Err: err}
	}
	return res, err
}

// State returns the breaker state, for health output.
func (b *BreakerTransport) State() string {
	return b.cb.State().String()
}

// breakerSuccess keeps caller mistakes, caller cancellation and caller
// deadlines out of the failure count. An attempt that ran out of its own
// budget arrives as *TimeoutError and still counts.
func breakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status >= 400 && httpErr.Status < 500 && httpErr.Status != http.StatusTooManyRequests
	}
	return false
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
