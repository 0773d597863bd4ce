package retry

import (
	"context"
	"time"
)

// Hooks observe a retry loop. All fields are optional.
type Hooks struct {
	// Retryable reports whether err warrants another attempt. Nil retries every error.
	Retryable func(err error) bool
	// OnRetry runs before sleeping for the given delay ahead of retry attempt n.
	OnRetry func(n int, err error, delay time.Duration)
	// OnExhausted runs once when the last permitted attempt failed.
	OnExhausted func(err error)
}

// Do runs fn until it succeeds, returns a non-retryable error, exhausts the
// policy or ctx is done. The last error is returned unchanged.
func Do(ctx context.Context, p Policy, h Hooks, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if h.Retryable != nil && !h.Retryable(err) {
			return err
		}
		if attempt >= p.MaxRetries {
			if h.OnExhausted != nil && p.MaxRetries > 0 {
				h.OnExhausted(err)
			}
			return err
		}

		delay := p.Delay(attempt + 1)
		if h.OnRetry != nil {
			h.OnRetry(attempt+1, err, delay)
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
