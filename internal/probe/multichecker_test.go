package probe

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/syncwatch/internal/domain"
)

type scriptedProber struct {
	outputs  map[string]Result
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (s *scriptedProber) Probe(ctx context.Context, target domain.Target) Result {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		cur := s.maxSeen.Load()
		if n <= cur || s.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return s.outputs[target.Alias]
}

func TestPool_PreservesOrderAndParses(t *testing.T) {
	sp := &scriptedProber{outputs: map[string]Result{
		"rp1":        {Output: "Primary execution client is fully synced"},
		"rp2":        {Output: "Primary consensus client is fully synced"},
		"hyperdrive": {Err: &Failure{Message: "connection refused"}},
	}}
	targets := []domain.Target{{Alias: "rp1"}, {Alias: "rp2"}, {Alias: "hyperdrive"}}

	out := NewPool(sp, 3).Run(context.Background(), targets)

	require.Len(t, out, 3)
	assert.Equal(t, "rp1", out[0].Target.Alias)
	assert.True(t, out[0].Status[domain.PrimaryExecution])
	assert.Equal(t, "rp2", out[1].Target.Alias)
	assert.True(t, out[1].Status[domain.PrimaryConsensus])
	assert.True(t, out[2].Failed())
	assert.Equal(t, domain.Status{}, out[2].Status)
}

func TestPool_RespectsConcurrency(t *testing.T) {
	sp := &scriptedProber{outputs: map[string]Result{}}
	targets := make([]domain.Target, 8)
	for i := range targets {
		targets[i] = domain.Target{Alias: string(rune('a' + i))}
	}

	NewPool(sp, 2).Run(context.Background(), targets)
	assert.LessOrEqual(t, sp.maxSeen.Load(), int32(2))

	sp.maxSeen.Store(0)
	NewPool(sp, 0).Run(context.Background(), targets)
	assert.Equal(t, int32(1), sp.maxSeen.Load())
}
