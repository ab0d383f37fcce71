package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Policy is an exponential backoff schedule.
type Policy struct {
	Attempts int           // total calls, at least 1
	Delay    time.Duration // wait before the second call
	MaxDelay time.Duration // cap on any single wait; 0 means uncapped
}

// DefaultPolicy makes three calls, waiting 1s and then 2s.
var DefaultPolicy = Policy{Attempts: 3, Delay: time.Second, MaxDelay: 10 * time.Second}

// Do calls fn until it succeeds, fails permanently or the attempts run out.
// Only errors wrapped in *RetryableError are retried. The last error is
// returned, or ctx.Err() if ctx ends while waiting.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	var err error
	for i := range max(p.Attempts, 1) {
		if err = fn(); err == nil || !isRetryable(err) {
			return err
		}
		if i == max(p.Attempts, 1)-1 {
			break
		}
		t := time.NewTimer(p.wait(i))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

// wait returns the pause after failed call i (0-based).
func (p Policy) wait(i int) time.Duration {
	d := p.Delay << i
	if p.MaxDelay > 0 && (d > p.MaxDelay || d <= 0) {
		return p.MaxDelay
	}
	return d
}

// Retry runs fn under an uncapped Policy.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Policy{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

func isRetryable(err error) bool {
	var r *RetryableError
	return errors.As(err, &r)
}
