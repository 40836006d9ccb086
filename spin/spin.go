// Package spin drives the wheel from a random start to a settled winner.
// All operations are pure: they take a State and return the next one, so the
// caller chooses the scheduler (frame ticker, test loop, simulation).
package spin

import (
	"math"

	"github.com/lixenwraith/prize-wheel/wheel"
)

const degToRad = math.Pi / 180

// Source supplies the randomness for a spin, satisfied by *math/rand/v2.Rand
type Source interface {
	Float64() float64
	IntN(n int) int
}

// Plan is the snapshot taken when a spin starts
type Plan struct {
	Slices []wheel.Slice
	Target float64 // uniform in [0, 2π)
	Turns  int
	Winner int // -1 until resolved
	Policy Policy
}

// State is the mutable wheel, owned by the caller and threaded through Start and Tick
type State struct {
	Rotation float64 // radians, accumulates while spinning
	Speed    float64 // degrees per tick
	Spinning bool
	Ticks    int // ticks advanced in the current or last spin
	Plan     Plan
}

// Result is the outcome of a settled spin
type Result struct {
	Index    int
	Rotation float64
	Ticks    int
	Target   float64
}

// Start begins a spin over the given layout
// A spin already in progress is left untouched and false is returned
func Start(s State, slices []wheel.Slice, src Source, p Params) (State, bool) {
	if s.Spinning {
		return s, false
	}

	snapshot := make([]wheel.Slice, len(slices))
	copy(snapshot, slices)

	speed := src.Float64()*(p.MaxSpeed-p.MinSpeed) + p.MinSpeed
	target := src.Float64() * wheel.FullTurn
	turns := p.MinTurns + src.IntN(p.MaxTurns-p.MinTurns)

	plan := Plan{
		Slices: snapshot,
		Target: target,
		Turns:  turns,
		Winner: -1,
		Policy: p.Policy,
	}
	if p.Policy == PolicyPre {
		plan.Winner = wheel.IndexAt(snapshot, target)
	}

	return State{
		Rotation: s.Rotation,
		Speed:    speed,
		Spinning: true,
		Plan:     plan,
	}, true
}

// Tick advances rotation by one frame and decays speed
// Returns true on the tick the wheel settles; idle states are returned unchanged
func Tick(s State, p Params) (State, bool) {
	if !s.Spinning {
		return s, false
	}

	s.Rotation += s.Speed * degToRad
	s.Speed *= p.Decay
	s.Ticks++

	if s.Speed > p.StopThreshold {
		return s, false
	}
	return settle(s, p), true
}

func settle(s State, p Params) State {
	s.Spinning = false
	s.Speed = 0

	switch s.Plan.Policy {
	case PolicyPre:
		s.Rotation = wheel.Normalize(float64(s.Plan.Turns)*wheel.FullTurn + s.Plan.Target)
	default:
		s.Rotation = wheel.Normalize(s.Rotation)
		s.Plan.Winner = wheel.IndexAt(s.Plan.Slices, UnderNeedle(s.Rotation, p.Needle))
	}
	return s
}

// Resolve returns the winner of a settled spin
// ok is false while spinning or before the first spin
func Resolve(s State) (Result, bool) {
	if s.Spinning || s.Plan.Winner < 0 || s.Plan.Slices == nil {
		return Result{}, false
	}
	return Result{
		Index:    s.Plan.Winner,
		Rotation: s.Rotation,
		Ticks:    s.Ticks,
		Target:   s.Plan.Target,
	}, true
}

// Run ticks a started state until it settles
func Run(s State, p Params) State {
	for s.Spinning {
		s, _ = Tick(s, p)
	}
	return s
}

// UnderNeedle returns the wheel angle sitting under a needle at the given screen angle
func UnderNeedle(rotation, needle float64) float64 {
	return wheel.Normalize(needle - rotation)
}

// TicksToSettle returns the number of Tick calls a spin starting at v0 takes to settle
func TicksToSettle(v0 float64, p Params) int {
	if v0 <= p.StopThreshold {
		return 1
	}
	return int(math.Ceil(math.Log(p.StopThreshold/v0) / math.Log(p.Decay)))
}

// Crossings counts slice boundaries that passed under the needle when the
// rotation moved from prev to next
func Crossings(prev, next float64, slices []wheel.Slice, needle float64) int {
	sweep := next - prev
	if sweep <= 0 || len(slices) < 2 {
		return 0
	}
	if sweep >= wheel.FullTurn {
		return len(slices) * int(sweep/wheel.FullTurn)
	}

	// Positive rotation moves the wheel angle under the needle backwards
	from := UnderNeedle(prev, needle)
	n := 0
	for _, sl := range slices {
		if wheel.Normalize(from-sl.Start) < sweep {
			n++
		}
	}
	return n
}
