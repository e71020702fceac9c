package anthropic

import (
	"context"
	"time"
)

// Sleeper waits between retry attempts. The default implementation sleeps
// on a timer but aborts early when the context is cancelled, so an
// abandoned call never holds a pending backoff. Tests inject a recording
// implementation instead of waiting in real time.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// timerSleeper is the production Sleeper.
type timerSleeper struct{}

func (timerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// backoffDelay computes the wait before retrying a failed attempt:
// 2^attempt seconds, plus uniform jitter in [0,1) seconds for server
// errors only. jitter yields a value in [0,1); it is a parameter so the
// delay is a pure function under test.
func backoffDelay(attempt int, withJitter bool, jitter func() float64) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	if withJitter {
		d += time.Duration(jitter() * float64(time.Second))
	}
	return d
}
