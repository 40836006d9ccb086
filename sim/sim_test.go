package sim

import (
	"context"
	"math"
	"testing"

	"github.com/lixenwraith/prize-wheel/spin"
	"github.com/lixenwraith/prize-wheel/wheel"
)

func options(policy spin.Policy, bias float64) Options {
	p := spin.DefaultParams()
	p.Policy = policy
	return Options{
		Spins:   20000,
		Workers: 4,
		Variant: wheel.VariantBiased,
		Bias:    bias,
		Params:  p,
		Seed:    17,
		Labels:  []string{"Mi", "Bun"},
	}
}

func TestWinRateTracksShare(t *testing.T) {
	tests := []struct {
		name   string
		policy spin.Policy
		bias   float64
		tol    float64
	}{
		{"pre balanced", spin.PolicyPre, 0, 0.02},
		{"pre skewed", spin.PolicyPre, 0.6, 0.02},
		{"post balanced", spin.PolicyPost, 0, 0.03},
		{"post skewed", spin.PolicyPost, -0.6, 0.03},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Run(context.Background(), options(tt.policy, tt.bias))
			if err != nil {
				t.Fatalf("run: %v", err)
			}

			total := 0
			for _, s := range r.Slices {
				total += s.Wins
				if d := math.Abs(s.WinRate - s.Share); d > tt.tol {
					t.Errorf("slice %d win rate %.4f, share %.4f", s.Index, s.WinRate, s.Share)
				}
			}
			if total != r.Spins {
				t.Errorf("wins sum %d, spins %d", total, r.Spins)
			}
		})
	}
}

func TestPostPolicyAlwaysMatchesNeedle(t *testing.T) {
	r, err := Run(context.Background(), options(spin.PolicyPost, 0.3))
	if err != nil {
		t.Fatal(err)
	}
	if r.NeedleMismatches != 0 {
		t.Errorf("post policy mismatches %d", r.NeedleMismatches)
	}

	pre, err := Run(context.Background(), options(spin.PolicyPre, 0.3))
	if err != nil {
		t.Fatal(err)
	}
	if pre.NeedleMismatches == 0 {
		t.Error("pre policy never disagreed with the needle on a skewed wheel")
	}
}

func TestDeterministicForSeed(t *testing.T) {
	o := options(spin.PolicyPost, 0.2)
	o.Spins = 3000
	a, err := Run(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Slices {
		if a.Slices[i] != b.Slices[i] {
			t.Errorf("slice %d: %+v vs %+v", i, a.Slices[i], b.Slices[i])
		}
	}
	if a.MeanTicks != b.MeanTicks {
		t.Errorf("mean ticks %v vs %v", a.MeanTicks, b.MeanTicks)
	}
}

func TestTickStatsWithinSpeedRange(t *testing.T) {
	o := options(spin.PolicyPost, 0)
	o.Spins = 2000
	r, err := Run(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}

	lo := spin.TicksToSettle(o.Params.MinSpeed, o.Params)
	hi := spin.TicksToSettle(o.Params.MaxSpeed, o.Params)
	if r.MeanTicks < float64(lo) || r.MeanTicks > float64(hi) || r.MaxTicks > hi {
		t.Errorf("ticks mean %.1f max %d outside [%d, %d]", r.MeanTicks, r.MaxTicks, lo, hi)
	}
	if r.Slices[0].Label != "Mi" {
		t.Errorf("label %q", r.Slices[0].Label)
	}
}

func TestFixedReportsNoBias(t *testing.T) {
	o := options(spin.PolicyPost, 0.9)
	o.Variant = wheel.VariantFixed
	o.Spins = 100
	r, err := Run(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}
	if r.Bias != 0 || r.Slices[0].Share != 0.5 {
		t.Errorf("fixed report %+v", r)
	}
}

func TestRunErrors(t *testing.T) {
	o := options(spin.PolicyPost, 0)
	o.Spins = 0
	if _, err := Run(context.Background(), o); err == nil {
		t.Error("zero spins accepted")
	}

	o = options(spin.PolicyPost, 0)
	o.Params.Decay = 1.5
	if _, err := Run(context.Background(), o); err == nil {
		t.Error("invalid params accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, options(spin.PolicyPost, 0)); err == nil {
		t.Error("cancelled context ignored")
	}
}

func TestSeedPickedWhenZero(t *testing.T) {
	o := options(spin.PolicyPre, 0)
	o.Seed = 0
	o.Spins = 10
	r, err := Run(context.Background(), o)
	if err != nil {
		t.Fatal(err)
	}
	if r.Seed == 0 {
		t.Error("report seed left at zero")
	}
}
