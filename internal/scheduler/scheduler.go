package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/syncwatch/internal/monitor"
)

// DefaultMinSleep is the shortest wait the loop accepts before it skips to
// the following boundary.
const DefaultMinSleep = 10 * time.Second

type State int32

const (
	Waiting State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Waiting:
		return "WAITING"
	case Running:
		return "RUNNING"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Status is a point-in-time view of the loop.
type Status struct {
	State   State     `json:"-"`
	Name    string    `json:"state"`
	Cycles  int64     `json:"cycles"`
	LastRun time.Time `json:"last_run"`
	NextRun time.Time `json:"next_run"`
}

type Cycler interface {
	RunCycle(ctx context.Context) monitor.CycleReport
}

// NextWakeup returns how long to sleep so the next cycle starts on a multiple
// of interval counted from the top of the hour. Waits shorter than threshold
// are pushed out by one more interval.
func NextWakeup(now time.Time, interval, threshold time.Duration) time.Duration {
	if interval <= 0 {
		return threshold
	}
	into := time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second +
		time.Duration(now.Nanosecond())
	wait := interval - into%interval
	if wait < threshold {
		wait += interval
	}
	return wait
}

type Scheduler struct {
	Logger   *zap.Logger
	Cycle    Cycler
	Interval time.Duration
	MinSleep time.Duration
	Now      func() time.Time
	After    func(time.Duration) <-chan time.Time

	mu     sync.RWMutex
	status Status
}

func NewScheduler(logger *zap.Logger, cycle Cycler, interval, minSleep time.Duration) *Scheduler {
	if minSleep < 0 {
		minSleep = 0
	}
	return &Scheduler{
		Logger:   logger,
		Cycle:    cycle,
		Interval: interval,
		MinSleep: minSleep,
		Now:      time.Now,
		After:    time.After,
		status:   Status{State: Waiting, Name: Waiting.String()},
	}
}

// Run does an immediate cycle, then one per aligned boundary. It returns only
// when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		s.runOnce(ctx)
		if err := ctx.Err(); err != nil {
			s.setWaiting(time.Time{})
			s.Logger.Info("scheduler_stopped")
			return err
		}

		now := s.Now()
		wait := NextWakeup(now, s.Interval, s.MinSleep)
		s.setWaiting(now.Add(wait))
		s.Logger.Info("next_check",
			zap.Duration("in", wait),
			zap.Time("at", now.Add(wait)),
		)

		select {
		case <-ctx.Done():
			s.setWaiting(time.Time{})
			s.Logger.Info("scheduler_stopped")
			return ctx.Err()
		case <-s.After(wait):
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	s.setRunning(s.Now())
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("cycle_panic", zap.Any("panic", r))
		}
	}()
	s.Cycle.RunCycle(ctx)
}

func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Scheduler) setRunning(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = Running
	s.status.Name = Running.String()
	s.status.LastRun = at
	s.status.Cycles++
}

func (s *Scheduler) setWaiting(next time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.State = Waiting
	s.status.Name = Waiting.String()
	s.status.NextRun = next
}
