package uploader

import (
	"context"
	"time"

	"github.com/xob0t/google-photos-mobile-client/internal/api"
)

// retryPolicy bounds how often a network step is reattempted and how long
// to wait between attempts.
type retryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

func (p retryPolicy) normalize() retryPolicy {
	if p.maxAttempts <= 0 {
		p.maxAttempts = 1
	}
	if p.baseDelay <= 0 {
		p.baseDelay = 500 * time.Millisecond
	}
	return p
}

// sleep waits for the backoff delay of the given attempt (0-based),
// doubling per attempt, or returns early when ctx is done.
func (p retryPolicy) sleep(ctx context.Context, attempt int) error {
	delay := p.baseDelay << attempt
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// withRetry runs op, reattempting transient failures with backoff.
// Protocol errors also get the bounded retries the taxonomy allows;
// auth and quota errors surface immediately.
func withRetry(ctx context.Context, p retryPolicy, op func() error) error {
	p = p.normalize()
	var err error
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		if err = op(); err == nil {
			return nil
		}
		if !api.IsTransient(err) && !api.IsProtocol(err) {
			return err
		}
		if attempt == p.maxAttempts-1 {
			break
		}
		if serr := p.sleep(ctx, attempt); serr != nil {
			return serr
		}
	}
	return err
}
