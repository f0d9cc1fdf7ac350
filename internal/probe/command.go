package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/hamed0406/syncwatch/internal/domain"
)

// errorMarker in stdout means the node CLI reported a problem even though it
// exited cleanly.
const errorMarker = "Error"

// waitDelay caps how long Run keeps reading output after the deadline kill,
// for descendants that still hold the pipes.
const waitDelay = 500 * time.Millisecond

// CommandProber executes the target's argv directly, no shell involved.
type CommandProber struct {
	Timeout time.Duration
}

func NewCommandProber(timeout time.Duration) *CommandProber {
	return &CommandProber{Timeout: timeout}
}

func (c *CommandProber) Probe(ctx context.Context, target domain.Target) Result {
	start := time.Now()
	if len(target.Command) == 0 {
		return Result{Err: &Failure{Message: "no command configured for " + target.Alias}}
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, target.Command[0], target.Command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	err := cmd.Run()
	res := Result{
		Output:   strings.TrimSpace(stdout.String()),
		Duration: time.Since(start),
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			msg = fmt.Sprintf("timed out after %s", c.Timeout)
		case msg == "":
			msg = err.Error()
		}
		res.Err = &Failure{Message: msg, Err: err}
		return res
	}
	if strings.Contains(res.Output, errorMarker) {
		res.Err = &Failure{Message: res.Output}
	}
	return res
}
