package tourapi

import (
	"context"
	"errors"
	"testing"
	"time"
)

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func TestRetrySucceedsAfterTwoFailures(t *testing.T) {
	rec := &sleepRecorder{}
	policy := DefaultRetryPolicy()
	policy.Sleep = rec.sleep

	calls := 0
	got, err := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (string, error) {
		calls++
		if calls < 3 {
			return "", &TimeoutError{Endpoint: "areaCode2", Timeout: time.Second}
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Fatalf("expected ok, got %q", got)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(rec.waits) != 2 || rec.waits[0] != time.Second || rec.waits[1] != 2*time.Second {
		t.Fatalf("expected waits [1s 2s], got %v", rec.waits)
	}
}

func TestRetryWaitsBetweenAttemptsWithRealTimer(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, Backoff: ExponentialBackoff(10 * time.Millisecond)}

	calls := 0
	start := time.Now()
	_, err := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("boom")
		}
		return calls, nil
	})
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10ms + 20ms
	if elapsed < 30*time.Millisecond {
		t.Fatalf("expected at least 30ms of backoff, got %s", elapsed)
	}
}

func TestRetryReturnsUnderlyingErrorAfterMaxAttempts(t *testing.T) {
	rec := &sleepRecorder{}
	policy := DefaultRetryPolicy()
	policy.Sleep = rec.sleep

	want := &HTTPError{Endpoint: "areaBasedList2", Status: 500, StatusText: "Internal Server Error"}
	calls := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, want
	})
	if err != want {
		t.Fatalf("expected the exact underlying error, got %v", err)
	}
	if calls != DefaultMaxAttempts {
		t.Fatalf("expected %d calls, got %d", DefaultMaxAttempts, calls)
	}
	if len(rec.waits) != DefaultMaxAttempts-1 {
		t.Fatalf("expected no wait after the final attempt, got %v", rec.waits)
	}
}

func TestRetryRetriesAuthErrorsByDefault(t *testing.T) {
	policy := DefaultRetryPolicy()
	policy.Sleep = (&sleepRecorder{}).sleep

	calls := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, &AuthError{Code: "SERVICE_KEY_IS_NOT_REGISTERED_ERROR"}
	})
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRetryUnlessAuthFailsFast(t *testing.T) {
	rec := &sleepRecorder{}
	policy := DefaultRetryPolicy()
	policy.Sleep = rec.sleep
	policy.Retryable = RetryUnlessAuth

	calls := 0
	_, err := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, &AuthError{Code: "SERVICE_KEY_IS_NOT_REGISTERED_ERROR"}
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 || len(rec.waits) != 0 {
		t.Fatalf("expected a single call and no wait, got %d calls and %v", calls, rec.waits)
	}
}

func TestRetryStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	policy := RetryPolicy{MaxAttempts: 5, Backoff: ExponentialBackoff(time.Hour)}
	done := make(chan error, 1)
	go func() {
		_, err := Retry(ctx, policy, func(ctx context.Context, attempt int) (int, error) {
			calls++
			return 0, errors.New("boom")
		})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retry did not stop after cancellation")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestRetryTreatsZeroAttemptsAsOne(t *testing.T) {
	calls := 0
	_, _ = Retry(context.Background(), RetryPolicy{}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, errors.New("boom")
	})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestExponentialBackoff(t *testing.T) {
	b := ExponentialBackoff(time.Second)
	for i, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second} {
		if got := b(i); got != want {
			t.Fatalf("attempt %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestExponentialBackoffIsCapped(t *testing.T) {
	backoff := ExponentialBackoff(time.Second)
	if got := backoff(2); got != 4*time.Second {
		t.Fatalf("expected 4s, got %s", got)
	}
	for _, attempt := range []int{6, 64, 1000} {
		if got := backoff(attempt); got != time.Minute {
			t.Fatalf("attempt %d: expected 1m cap, got %s", attempt, got)
		}
	}
}
