package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/hamed0406/syncwatch/internal/domain"
	"github.com/hamed0406/syncwatch/internal/probe"
)

const (
	StatusSubject  = "🚨 Node Sync Status Update"
	StartupSubject = "🚀 Sync Monitor Starting"
	StoppedSubject = "⚠️ Sync Monitor Stopped"

	timeLayout = "2006-01-02 15:04:05"
	dateLayout = "2006-01-02"

	syncedSymbol = "✓"
	alertSymbol  = "⚠️ "
)

func stamp(t time.Time) string { return t.Format(timeLayout) }

func eventLine(ev domain.Event) string {
	if ev.Kind == domain.BecameSynced {
		return fmt.Sprintf("%s %s - %s: %s is back in sync", syncedSymbol, stamp(ev.At), ev.Key.Alias, ev.Key.Client.Label())
	}
	return fmt.Sprintf("%s %s - %s: %s is not synced!", alertSymbol, stamp(ev.At), ev.Key.Alias, ev.Key.Client.Label())
}

func probeFailureLine(at time.Time, alias string, err error) string {
	return fmt.Sprintf("%s %s - Failed to get sync status for %s: %v", alertSymbol, stamp(at), alias, err)
}

func recapBlock(keys []domain.StatusKey) string {
	var b strings.Builder
	b.WriteString("\nCurrently not synced clients:")
	for _, k := range keys {
		fmt.Fprintf(&b, "\n  • %s: %s", k.Alias, k.Client.Label())
	}
	return b.String()
}

// renderSummary lists every target and client from one probe pass.
func renderSummary(outcomes []probe.Outcome) string {
	var b strings.Builder
	for i, o := range outcomes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "\n%s Status:", o.Target.Alias)
		if o.Failed() {
			fmt.Fprintf(&b, "\n%s Failed to get status", alertSymbol)
			continue
		}
		for _, c := range domain.SubClients {
			sym, text := syncedSymbol, "synced"
			if !o.Status[c] {
				sym, text = alertSymbol, "not synced"
			}
			fmt.Fprintf(&b, "\n%s %s: %s", sym, c.Label(), text)
		}
	}
	return b.String()
}

func dailySummary(at time.Time, outcomes []probe.Outcome) string {
	return fmt.Sprintf("\n=== Daily Summary (%s) ===", stamp(at)) + renderSummary(outcomes)
}

func startupMessage(at time.Time, outcomes []probe.Outcome) string {
	return fmt.Sprintf("Starting sync monitor at %s\nMonitoring for sync issues...\n\n=== Initial Status ===", stamp(at)) +
		renderSummary(outcomes)
}

// StoppedMessage is sent by the companion stop notifier, outside the loop.
func StoppedMessage(at time.Time) (subject, body string) {
	return StoppedSubject, fmt.Sprintf("Sync monitor service stopped at %s", stamp(at))
}
