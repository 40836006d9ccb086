package spin

import (
	"fmt"
	"math"
)

// Policy selects when the winning slice is decided
type Policy uint8

const (
	// PolicyPost resolves the winner from the settled rotation under the needle
	PolicyPost Policy = iota
	// PolicyPre resolves the winner from the random target at spin start
	// The settled wheel is placed at the target angle, which the needle may not agree with
	PolicyPre
)

// String returns the config name of the policy
func (p Policy) String() string {
	switch p {
	case PolicyPost:
		return "post"
	case PolicyPre:
		return "pre"
	default:
		return "unknown"
	}
}

// ParsePolicy maps a config name to a Policy
func ParsePolicy(s string) (Policy, bool) {
	switch s {
	case "post", "settled":
		return PolicyPost, true
	case "pre", "target":
		return PolicyPre, true
	}
	return PolicyPost, false
}

// Default tuning, speed is in degrees per tick
const (
	DefaultDecay         = 0.98
	DefaultStopThreshold = 0.1
	DefaultMinSpeed      = 15.0
	DefaultMaxSpeed      = 25.0
	DefaultMinTurns      = 5
	DefaultMaxTurns      = 10
)

// NeedleTop is the screen angle of a needle drawn above the wheel
// Screen angles grow clockwise with y pointing down, so the top is 3π/2
const NeedleTop = 3 * math.Pi / 2

// Params configures a spin
type Params struct {
	Decay         float64 // speed multiplier per tick, in (0, 1)
	StopThreshold float64 // speed at or below which the wheel settles
	MinSpeed      float64 // initial speed range [MinSpeed, MaxSpeed)
	MaxSpeed      float64
	MinTurns      int // extra full turns for the target rotation, [MinTurns, MaxTurns)
	MaxTurns      int
	Needle        float64 // screen angle of the needle
	Policy        Policy
}

// DefaultParams returns the stock tuning with the post-resolved policy
func DefaultParams() Params {
	return Params{
		Decay:         DefaultDecay,
		StopThreshold: DefaultStopThreshold,
		MinSpeed:      DefaultMinSpeed,
		MaxSpeed:      DefaultMaxSpeed,
		MinTurns:      DefaultMinTurns,
		MaxTurns:      DefaultMaxTurns,
		Needle:        NeedleTop,
		Policy:        PolicyPost,
	}
}

// Validate reports the first inconsistent parameter
func (p Params) Validate() error {
	switch {
	case p.Decay <= 0 || p.Decay >= 1:
		return fmt.Errorf("decay %v must be in (0, 1)", p.Decay)
	case p.StopThreshold <= 0:
		return fmt.Errorf("stop threshold %v must be positive", p.StopThreshold)
	case p.MinSpeed <= p.StopThreshold:
		return fmt.Errorf("min speed %v must exceed stop threshold %v", p.MinSpeed, p.StopThreshold)
	case p.MaxSpeed < p.MinSpeed:
		return fmt.Errorf("max speed %v below min speed %v", p.MaxSpeed, p.MinSpeed)
	case p.MinTurns < 0 || p.MaxTurns <= p.MinTurns:
		return fmt.Errorf("turn range [%d, %d) is empty", p.MinTurns, p.MaxTurns)
	case p.Policy != PolicyPost && p.Policy != PolicyPre:
		return fmt.Errorf("unknown policy %d", p.Policy)
	}
	return nil
}
