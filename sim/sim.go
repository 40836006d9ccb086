// Package sim runs spins headlessly and tallies the outcomes per slice.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/prize-wheel/spin"
	"github.com/lixenwraith/prize-wheel/wheel"
)

// cancelCheck is how many spins a worker runs between context checks
const cancelCheck = 1024

// Options describe one simulation batch
type Options struct {
	Spins   int
	Workers int
	Variant wheel.Variant
	Bias    float64
	Params  spin.Params
	Seed    uint64 // 0 picks one at random, reported back
	Labels  []string
}

// SliceStats is the tally for one slice
type SliceStats struct {
	Index   int     `json:"index"`
	Label   string  `json:"label,omitempty"`
	Span    float64 `json:"span"`
	Share   float64 `json:"share"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// Report summarises a batch
type Report struct {
	Spins     int          `json:"spins"`
	Workers   int          `json:"workers"`
	Variant   string       `json:"variant"`
	Bias      float64      `json:"bias"`
	Policy    string       `json:"policy"`
	Seed      uint64       `json:"seed"`
	Slices    []SliceStats `json:"slices"`
	MeanTicks float64      `json:"mean_ticks"`
	MaxTicks  int          `json:"max_ticks"`

	// NeedleMismatches counts spins whose declared winner is not the slice under the needle
	NeedleMismatches int `json:"needle_mismatches"`
}

type tally struct {
	wins       []int
	ticks      int
	maxTicks   int
	mismatches int
}

// Run spins the wheel o.Spins times across o.Workers goroutines
// Each worker keeps its wheel rotation between spins as the interactive wheel does
func Run(ctx context.Context, o Options) (*Report, error) {
	if o.Spins <= 0 {
		return nil, errors.New("spins must be positive")
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Workers > o.Spins {
		o.Workers = o.Spins
	}
	if err := o.Params.Validate(); err != nil {
		return nil, fmt.Errorf("spin params: %w", err)
	}
	if o.Seed == 0 {
		o.Seed = rand.Uint64() | 1
	}

	slices := wheel.Compute(o.Variant, o.Bias)
	tallies := make([]tally, o.Workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < o.Workers; w++ {
		n := o.Spins / o.Workers
		if w < o.Spins%o.Workers {
			n++
		}
		g.Go(func() error {
			src := rand.New(rand.NewPCG(o.Seed, uint64(w)))
			t, err := work(gctx, n, slices, src, o.Params)
			tallies[w] = t
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return merge(o, slices, tallies), nil
}

func work(ctx context.Context, n int, slices []wheel.Slice, src spin.Source, p spin.Params) (tally, error) {
	t := tally{wins: make([]int, len(slices))}
	var s spin.State

	for i := 0; i < n; i++ {
		if i%cancelCheck == 0 {
			if err := ctx.Err(); err != nil {
				return t, err
			}
		}

		s, _ = spin.Start(s, slices, src, p)
		s = spin.Run(s, p)
		res, ok := spin.Resolve(s)
		if !ok {
			return t, fmt.Errorf("spin %d did not resolve", i)
		}

		t.wins[res.Index]++
		t.ticks += res.Ticks
		t.maxTicks = max(t.maxTicks, res.Ticks)
		if wheel.IndexAt(slices, spin.UnderNeedle(res.Rotation, p.Needle)) != res.Index {
			t.mismatches++
		}
	}
	return t, nil
}

func merge(o Options, slices []wheel.Slice, tallies []tally) *Report {
	r := &Report{
		Spins:   o.Spins,
		Workers: o.Workers,
		Variant: o.Variant.String(),
		Bias:    o.Bias,
		Policy:  o.Params.Policy.String(),
		Seed:    o.Seed,
		Slices:  make([]SliceStats, len(slices)),
	}
	if o.Variant != wheel.VariantBiased {
		r.Bias = 0
	}

	ticks := 0
	for _, t := range tallies {
		for i, w := range t.wins {
			r.Slices[i].Wins += w
		}
		ticks += t.ticks
		r.MaxTicks = max(r.MaxTicks, t.maxTicks)
		r.NeedleMismatches += t.mismatches
	}
	r.MeanTicks = float64(ticks) / float64(o.Spins)

	for i, sl := range slices {
		st := &r.Slices[i]
		st.Index = i
		st.Span = sl.Span
		st.Share = sl.Share()
		st.WinRate = float64(st.Wins) / float64(o.Spins)
		if i < len(o.Labels) {
			st.Label = o.Labels[i]
		}
	}
	return r
}
