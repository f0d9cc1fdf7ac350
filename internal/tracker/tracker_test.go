package tracker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/syncwatch/internal/domain"
	"github.com/hamed0406/syncwatch/internal/probe"
)

var at = time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

func key(alias string, c domain.SubClient) domain.StatusKey {
	return domain.StatusKey{Alias: alias, Client: c}
}

func allSynced() domain.Status { return domain.Status{true, true, true, true} }

func TestResolve_DefaultsToSynced(t *testing.T) {
	assert.True(t, Resolve(false, false))
	assert.True(t, Resolve(true, true))
	assert.False(t, Resolve(false, true))
}

func TestInitialize_SeedsSuccessfulTargetsOnly(t *testing.T) {
	tr := New()
	tr.Initialize([]probe.Outcome{
		{Target: domain.Target{Alias: "rp1"}, Status: domain.Status{true, false, true, false}},
		{Target: domain.Target{Alias: "hyperdrive"}, Result: probe.Result{Err: errors.New("boom")}},
	})

	for _, c := range domain.SubClients {
		v, known := tr.Lookup(key("rp1", c))
		require.True(t, known)
		assert.Equal(t, c == domain.PrimaryExecution || c == domain.PrimaryConsensus, v, c.String())

		_, known = tr.Lookup(key("hyperdrive", c))
		assert.False(t, known, "failed target must stay absent")
	}
	assert.Empty(t, tr.DiffAndUpdate("hyperdrive", allSynced(), at), "absent keys behave as synced")
}

func TestDiffAndUpdate_Idempotent(t *testing.T) {
	tr := New()
	obs := domain.Status{false, true, false, true}

	first := tr.DiffAndUpdate("rp1", obs, at)
	assert.Len(t, first, 2)
	assert.Empty(t, tr.DiffAndUpdate("rp1", obs, at))
}

func TestDiffAndUpdate_TransitionSequence(t *testing.T) {
	tr := New()
	var kinds []domain.TransitionKind
	for _, v := range []bool{true, false, false, true} {
		st := allSynced()
		st[domain.PrimaryExecution] = v
		for _, ev := range tr.DiffAndUpdate("rp1", st, at) {
			assert.Equal(t, key("rp1", domain.PrimaryExecution), ev.Key)
			assert.True(t, ev.Alert)
			assert.Equal(t, at, ev.At)
			kinds = append(kinds, ev.Kind)
		}
	}
	assert.Equal(t, []domain.TransitionKind{domain.BecameUnsynced, domain.BecameSynced}, kinds)
}

func TestApply_UsesPreCycleSnapshot(t *testing.T) {
	tr := New()
	events := tr.Apply([]Observation{
		{Alias: "rp1", Status: domain.Status{false, true, true, true}},
		{Alias: "rp2", Status: domain.Status{true, true, false, true}},
	}, at)

	require.Len(t, events, 2)
	assert.Equal(t, key("rp1", domain.PrimaryExecution), events[0].Key)
	assert.Equal(t, key("rp2", domain.PrimaryConsensus), events[1].Key)
}

func TestUnsynced_SortedFleetWide(t *testing.T) {
	tr := New()
	tr.DiffAndUpdate("rp2", domain.Status{false, true, true, true}, at)
	tr.DiffAndUpdate("rp1", domain.Status{true, true, true, false}, at)
	tr.DiffAndUpdate("rp1", domain.Status{false, true, true, false}, at)

	assert.Equal(t, []domain.StatusKey{
		key("rp1", domain.FallbackConsensus),
		key("rp1", domain.PrimaryExecution),
		key("rp2", domain.PrimaryExecution),
	}, tr.Unsynced())
}

func TestSnapshot_IsACopy(t *testing.T) {
	tr := New()
	tr.DiffAndUpdate("rp1", allSynced(), at)
	snap := tr.Snapshot()
	snap[key("rp1", domain.PrimaryExecution)] = false

	v, _ := tr.Lookup(key("rp1", domain.PrimaryExecution))
	assert.True(t, v)
	assert.Len(t, snap, 4)
}
