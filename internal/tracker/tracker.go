// Package tracker keeps the last known sync state of every node client and
// turns fresh observations into transition events.
package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/hamed0406/syncwatch/internal/domain"
	"github.com/hamed0406/syncwatch/internal/probe"
)

// DefaultSynced is assumed for a key that has never been observed, so a
// probe failing before its first successful parse does not raise an alarm.
const DefaultSynced = true

// Resolve applies the default to a possibly unknown value.
func Resolve(synced, known bool) bool {
	if !known {
		return DefaultSynced
	}
	return synced
}

// Observation is one target's parsed status for a cycle.
type Observation struct {
	Alias  string
	Status domain.Status
}

// Tracker owns the sync state map. Keys are never removed.
type Tracker struct {
	mu    sync.RWMutex
	state map[domain.StatusKey]bool
}

func New() *Tracker {
	return &Tracker{state: make(map[domain.StatusKey]bool)}
}

// Initialize seeds state from a startup probe pass without emitting events.
// Failed targets stay absent.
func (t *Tracker) Initialize(outcomes []probe.Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, o := range outcomes {
		if o.Failed() {
			continue
		}
		for _, c := range domain.SubClients {
			t.state[domain.StatusKey{Alias: o.Target.Alias, Client: c}] = o.Status[c]
		}
	}
}

// Lookup returns the stored value and whether the key has been seen.
func (t *Tracker) Lookup(key domain.StatusKey) (synced, known bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	synced, known = t.state[key]
	return synced, known
}

// DiffAndUpdate compares one target's observation with the stored state and
// writes it back.
func (t *Tracker) DiffAndUpdate(alias string, observed domain.Status, at time.Time) []domain.Event {
	return t.Apply([]Observation{{Alias: alias, Status: observed}}, at)
}

// Apply diffs every observation of a cycle against the state as it was before
// the cycle and commits them together.
func (t *Tracker) Apply(obs []Observation, at time.Time) []domain.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	var events []domain.Event
	for _, o := range obs {
		for _, c := range domain.SubClients {
			key := domain.StatusKey{Alias: o.Alias, Client: c}
			prevVal, known := t.state[key]
			prev := Resolve(prevVal, known)
			now := o.Status[c]

			switch {
			case prev && !now:
				events = append(events, domain.Event{Kind: domain.BecameUnsynced, Key: key, At: at, Alert: true})
			case !prev && now:
				events = append(events, domain.Event{Kind: domain.BecameSynced, Key: key, At: at, Alert: true})
			}
			t.state[key] = now
		}
	}
	return events
}

// Unsynced lists every key currently false, sorted by alias then label.
func (t *Tracker) Unsynced() []domain.StatusKey {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []domain.StatusKey
	for k, synced := range t.state {
		if !synced {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Snapshot returns a copy of the whole state.
func (t *Tracker) Snapshot() map[domain.StatusKey]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[domain.StatusKey]bool, len(t.state))
	for k, v := range t.state {
		out[k] = v
	}
	return out
}
