package probe

import (
	"context"
	"time"

	"github.com/hamed0406/syncwatch/internal/domain"
)

// Result is the raw outcome of running a target's status command.
//
// Output holds trimmed stdout. Err is non-nil when the command failed, in
// which case Output must not be parsed.
type Result struct {
	Output   string
	Err      error
	Duration time.Duration
}

func (r Result) Failed() bool { return r.Err != nil }

// Prober runs the status command for a single target.
type Prober interface {
	Probe(ctx context.Context, target domain.Target) Result
}

// Failure carries the text the upstream command reported when it failed.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return "Error: " + f.Message }

func (f *Failure) Unwrap() error { return f.Err }
