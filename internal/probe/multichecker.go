package probe

import (
	"context"
	"sync"

	"github.com/hamed0406/syncwatch/internal/domain"
)

// Outcome is one target's probe result for a cycle, parsed when it succeeded.
type Outcome struct {
	Target domain.Target
	Result Result
	Status domain.Status
}

func (o Outcome) Failed() bool { return o.Result.Failed() }

// Pool probes a set of targets with bounded concurrency.
type Pool struct {
	Prober      Prober
	Concurrency int
}

func NewPool(p Prober, concurrency int) *Pool {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pool{Prober: p, Concurrency: concurrency}
}

// Run returns one outcome per target, in the order the targets were given.
func (p *Pool) Run(ctx context.Context, targets []domain.Target) []Outcome {
	out := make([]Outcome, len(targets))
	sem := make(chan struct{}, p.Concurrency)
	var wg sync.WaitGroup

	for i, tgt := range targets {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, tgt domain.Target) {
			defer func() { <-sem }()
			defer wg.Done()

			res := p.Prober.Probe(ctx, tgt)
			o := Outcome{Target: tgt, Result: res}
			if !res.Failed() {
				o.Status = ParseSyncStatus(res.Output)
			}
			out[i] = o
		}(i, tgt)
	}

	wg.Wait()
	return out
}
