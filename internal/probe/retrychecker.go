package probe

import (
	"context"
	"errors"
	"time"

	"github.com/hamed0406/syncwatch/internal/domain"
)

// RetryProber re-runs a failed probe before giving up on it for this cycle.
type RetryProber struct {
	Inner    Prober
	Attempts int
	Backoff  time.Duration
}

func (r *RetryProber) Probe(ctx context.Context, target domain.Target) Result {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last Result
	for i := 0; i < attempts; i++ {
		last = r.Inner.Probe(ctx, target)
		if !last.Failed() {
			return last
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(r.Backoff):
		case <-ctx.Done():
			return last
		}
	}
	if attempts > 1 {
		var f *Failure
		if errors.As(last.Err, &f) {
			last.Err = &Failure{Message: f.Message + " (after retries)", Err: f.Err}
		}
	}
	return last
}
