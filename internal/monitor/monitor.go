// Package monitor runs one polling cycle: probe every node, diff against the
// tracked state, and send at most one batched notification.
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/syncwatch/internal/domain"
	"github.com/hamed0406/syncwatch/internal/notify"
	"github.com/hamed0406/syncwatch/internal/probe"
	"github.com/hamed0406/syncwatch/internal/repo"
	"github.com/hamed0406/syncwatch/internal/tracker"
)

const DefaultSummaryWindow = 5 * time.Minute

// CycleReport describes what one cycle did.
type CycleReport struct {
	StartedAt     time.Time
	Events        []domain.Event
	ProbeFailures int
	SummarySent   bool
	Lines         int
	Notified      bool
}

type Monitor struct {
	Logger        *zap.Logger
	Targets       []domain.Target
	Pool          *probe.Pool
	Tracker       *tracker.Tracker
	Notifier      notify.Notifier
	History       repo.NotificationStore
	SummaryWindow time.Duration
	Now           func() time.Time

	batch          Batch
	lastSummaryDay string
}

func New(
	logger *zap.Logger,
	targets []domain.Target,
	pool *probe.Pool,
	tr *tracker.Tracker,
	n notify.Notifier,
	history repo.NotificationStore,
	summaryWindow time.Duration,
) *Monitor {
	if summaryWindow <= 0 {
		summaryWindow = DefaultSummaryWindow
	}
	return &Monitor{
		Logger:        logger,
		Targets:       targets,
		Pool:          pool,
		Tracker:       tr,
		Notifier:      n,
		History:       history,
		SummaryWindow: summaryWindow,
		Now:           time.Now,
	}
}

// Start seeds the tracker from one probe pass and announces the monitor with
// the initial status of every node.
func (m *Monitor) Start(ctx context.Context) {
	outcomes := m.Pool.Run(ctx, m.Targets)
	m.Tracker.Initialize(outcomes)

	failed := 0
	for _, o := range outcomes {
		if o.Failed() {
			failed++
			m.Logger.Warn("init_probe_failed",
				zap.String("alias", o.Target.Alias),
				zap.Error(o.Result.Err),
			)
		}
	}
	m.Logger.Info("tracker_initialized",
		zap.Int("targets", len(outcomes)),
		zap.Int("failed", failed),
	)

	m.deliver(ctx, StartupSubject, startupMessage(m.Now(), outcomes))
}

// RunCycle performs one polling cycle. Probe and transport failures are
// reported in the message and the log, never returned.
func (m *Monitor) RunCycle(ctx context.Context) CycleReport {
	m.batch.Reset()
	now := m.Now()
	report := CycleReport{StartedAt: now}

	outcomes := m.Pool.Run(ctx, m.Targets)

	if DailySummaryDue(now, m.lastSummaryDay, m.SummaryWindow) {
		m.add(dailySummary(now, outcomes))
		m.lastSummaryDay = now.Format(dateLayout)
		report.SummarySent = true
	}

	obs := make([]tracker.Observation, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Failed() {
			obs = append(obs, tracker.Observation{Alias: o.Target.Alias, Status: o.Status})
		}
	}
	events := m.Tracker.Apply(obs, now)
	byAlias := make(map[string][]domain.Event, len(obs))
	for _, ev := range events {
		byAlias[ev.Key.Alias] = append(byAlias[ev.Key.Alias], ev)
	}

	for _, o := range outcomes {
		alias := o.Target.Alias
		if o.Failed() {
			report.ProbeFailures++
			m.Logger.Warn("probe_failed",
				zap.String("alias", alias),
				zap.Duration("took", o.Result.Duration),
				zap.Error(o.Result.Err),
			)
			m.add(probeFailureLine(now, alias, o.Result.Err))
			continue
		}
		m.Logger.Debug("probe_parsed",
			zap.String("alias", alias),
			zap.Bools("status", o.Status[:]),
		)
		for _, ev := range byAlias[alias] {
			m.add(eventLine(ev))
		}
	}
	report.Events = events

	if len(events) > 0 {
		if unsynced := m.Tracker.Unsynced(); len(unsynced) > 0 {
			m.add(recapBlock(unsynced))
		}
	}

	report.Lines = m.batch.Len()
	if m.batch.Len() > 0 {
		report.Notified = m.deliver(ctx, StatusSubject, m.batch.Compose())
	}

	m.Logger.Info("cycle_complete",
		zap.Int("events", len(events)),
		zap.Int("probe_failures", report.ProbeFailures),
		zap.Bool("daily_summary", report.SummarySent),
		zap.Bool("notified", report.Notified),
	)
	return report
}

// DailySummaryDue reports whether now falls inside the window after local
// midnight on a day that has not had its summary yet.
func DailySummaryDue(now time.Time, lastDay string, window time.Duration) bool {
	if now.Format(dateLayout) == lastDay || now.Hour() != 0 {
		return false
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return now.Sub(midnight) < window
}

func (m *Monitor) add(line string) {
	m.Logger.Info("alert_line", zap.String("text", line))
	m.batch.Add(line)
}

// deliver sends once and records the outcome. Failures are dropped.
func (m *Monitor) deliver(ctx context.Context, subject, body string) bool {
	m.Logger.Info("notification_sending", zap.String("subject", subject), zap.String("body", body))

	err := m.Notifier.Send(ctx, subject, body)
	rec := &domain.Notification{
		Subject:   subject,
		Body:      body,
		CreatedAt: m.Now().UTC(),
		Delivered: err == nil,
	}
	if err != nil {
		rec.Error = err.Error()
		m.Logger.Error("notify_failed", zap.String("subject", subject), zap.Error(err))
	} else {
		m.Logger.Info("notification_sent", zap.String("subject", subject))
	}
	if m.History != nil {
		if herr := m.History.Append(ctx, rec); herr != nil {
			m.Logger.Warn("history_append_failed", zap.Error(herr))
		}
	}
	return err == nil
}
