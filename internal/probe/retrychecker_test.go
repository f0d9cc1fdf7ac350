package probe

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hamed0406/syncwatch/internal/domain"
)

// fake prober you can control
type fakeProber struct {
	mu      sync.Mutex
	results []Result
	i       int
}

func (f *fakeProber) Probe(ctx context.Context, target domain.Target) Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.i >= len(f.results) {
		return Result{Err: &Failure{Message: "no more"}}
	}
	r := f.results[f.i]
	f.i++
	return r
}

func TestRetryProber_SucceedsAfterRetry(t *testing.T) {
	f := &fakeProber{
		results: []Result{
			{Err: &Failure{Message: "first fail"}},
			{Output: "ok"},
		},
	}
	rp := &RetryProber{
		Inner:    f,
		Attempts: 3,
		Backoff:  10 * time.Millisecond,
	}
	out := rp.Probe(context.Background(), domain.Target{Alias: "rp1"})
	if out.Failed() {
		t.Fatalf("expected success after retry, got %+v", out)
	}
	if f.i != 2 {
		t.Fatalf("expected 2 attempts, got %d", f.i)
	}
}

func TestRetryProber_AllFailAnnotates(t *testing.T) {
	f := &fakeProber{
		results: []Result{
			{Err: &Failure{Message: "fail1"}},
			{Err: &Failure{Message: "fail2"}},
		},
	}
	rp := &RetryProber{
		Inner:    f,
		Attempts: 2,
		Backoff:  0,
	}
	out := rp.Probe(context.Background(), domain.Target{Alias: "rp1"})
	if !out.Failed() {
		t.Fatalf("expected failure, got success")
	}
	var fl *Failure
	if !errors.As(out.Err, &fl) {
		t.Fatalf("expected *Failure, got %T", out.Err)
	}
	if !strings.HasPrefix(fl.Message, "fail2") || !strings.HasSuffix(fl.Message, "(after retries)") {
		t.Fatalf("unexpected message %q", fl.Message)
	}
}

func TestRetryProber_SingleAttemptLeavesMessage(t *testing.T) {
	f := &fakeProber{results: []Result{{Err: &Failure{Message: "boom"}}}}
	rp := &RetryProber{Inner: f}
	out := rp.Probe(context.Background(), domain.Target{Alias: "rp1"})
	if out.Err.Error() != "Error: boom" {
		t.Fatalf("got %q", out.Err.Error())
	}
}
