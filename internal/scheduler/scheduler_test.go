package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hamed0406/syncwatch/internal/monitor"
)

func at(h, m, s int) time.Time { return time.Date(2025, 8, 18, h, m, s, 0, time.UTC) }

func TestNextWakeup(t *testing.T) {
	five := 5 * time.Minute
	cases := []struct {
		name     string
		now      time.Time
		interval time.Duration
		want     time.Duration
	}{
		{"on boundary", at(12, 0, 0), five, five},
		{"mid interval", at(12, 2, 30), five, 2*time.Minute + 30*time.Second},
		{"just before boundary", at(12, 4, 55), five, five + 5*time.Second},
		{"exactly threshold", at(12, 4, 50), five, 10 * time.Second},
		{"end of hour", at(12, 59, 0), five, time.Minute},
		{"hour interval", at(12, 20, 0), time.Hour, 40 * time.Minute},
		{"non divisor", at(12, 50, 0), 7 * time.Minute, 6 * time.Minute},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NextWakeup(c.now, c.interval, DefaultMinSleep), c.name)
	}
}

func TestNextWakeup_SubSecondAndBadInterval(t *testing.T) {
	now := time.Date(2025, 8, 18, 12, 2, 59, int(500*time.Millisecond), time.UTC)
	assert.Equal(t, 2*time.Minute+500*time.Millisecond, NextWakeup(now, 5*time.Minute, DefaultMinSleep))
	assert.Equal(t, DefaultMinSleep, NextWakeup(now, 0, DefaultMinSleep))
}

type countingCycle struct {
	n      int
	stopAt int
	cancel context.CancelFunc
	panics bool
	seen   []State
	s      *Scheduler
}

func (c *countingCycle) RunCycle(ctx context.Context) monitor.CycleReport {
	c.n++
	c.seen = append(c.seen, c.s.Status().State)
	if c.n >= c.stopAt {
		c.cancel()
	}
	if c.panics && c.n == 1 {
		panic("probe exploded")
	}
	return monitor.CycleReport{}
}

func TestScheduler_RunLoopsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cyc := &countingCycle{stopAt: 3, cancel: cancel}
	s := NewScheduler(zap.NewNop(), cyc, 5*time.Minute, DefaultMinSleep)
	cyc.s = s
	now := at(12, 4, 55)
	s.Now = func() time.Time { return now }

	var waits []time.Duration
	s.After = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		ch := make(chan time.Time, 1)
		ch <- now.Add(d)
		return ch
	}

	err := s.Run(ctx)
	require.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 3, cyc.n)
	assert.Equal(t, []State{Running, Running, Running}, cyc.seen)
	for _, w := range waits {
		assert.Equal(t, 5*time.Minute+5*time.Second, w)
	}

	st := s.Status()
	assert.Equal(t, Waiting, st.State)
	assert.Equal(t, "WAITING", st.Name)
	assert.Equal(t, int64(3), st.Cycles)
	assert.True(t, st.NextRun.IsZero(), "no next run once stopped")
	assert.Len(t, waits, 2)
}

func TestScheduler_PanickingCycleDoesNotStopLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cyc := &countingCycle{stopAt: 2, cancel: cancel, panics: true}
	s := NewScheduler(zap.NewNop(), cyc, time.Minute, 0)
	cyc.s = s
	s.After = func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}

	_ = s.Run(ctx)
	assert.Equal(t, 2, cyc.n)
}
