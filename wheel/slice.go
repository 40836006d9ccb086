// Package wheel computes the angular layout of the prize wheel.
// It has no display dependencies so geometry can be tested in isolation.
package wheel

import "math"

// FullTurn is one revolution in radians
const FullTurn = 2 * math.Pi

// SliceCount is the number of segments on the wheel
const SliceCount = 2

// MinBand is the angle reserved across both slices so neither collapses to zero width
// Each slice keeps at least MinBand/2
const MinBand = 0.2

// MinSpan is the narrowest slice the biased layout can produce
const MinSpan = MinBand / 2

// Variant selects how slice widths are derived
type Variant uint8

const (
	// VariantFixed splits the wheel evenly regardless of bias
	VariantFixed Variant = iota
	// VariantBiased sizes slices from the bias value
	VariantBiased
)

// String returns the config name of the variant
func (v Variant) String() string {
	switch v {
	case VariantFixed:
		return "fixed"
	case VariantBiased:
		return "biased"
	default:
		return "unknown"
	}
}

// ParseVariant maps a config name to a Variant
func ParseVariant(s string) (Variant, bool) {
	switch s {
	case "fixed":
		return VariantFixed, true
	case "biased":
		return VariantBiased, true
	}
	return VariantFixed, false
}

// Slice is one angular segment, Start in [0, 2π), Span > 0
type Slice struct {
	Index int
	Start float64
	Span  float64
}

// End returns the upper bound of the slice in wheel coordinates
func (s Slice) End() float64 {
	return s.Start + s.Span
}

// Mid returns the angle halfway through the slice
func (s Slice) Mid() float64 {
	return s.Start + s.Span/2
}

// Share returns the fraction of the wheel covered by the slice
func (s Slice) Share() float64 {
	return s.Span / FullTurn
}

// Fixed returns two slices of exactly π each
func Fixed() []Slice {
	return fromSpans(math.Pi, math.Pi)
}

// Biased returns the slice layout for a bias in [-1, 1]
// Bias is not validated; callers clamp it at the input
func Biased(bias float64) []Slice {
	p := (bias + 1) / 2
	span0 := p*(FullTurn-MinBand) + MinSpan
	span1 := FullTurn - span0
	return fromSpans(span0, span1)
}

// Compute dispatches on variant, bias is ignored for VariantFixed
func Compute(v Variant, bias float64) []Slice {
	if v == VariantBiased {
		return Biased(bias)
	}
	return Fixed()
}

func fromSpans(spans ...float64) []Slice {
	slices := make([]Slice, len(spans))
	start := 0.0
	for i, span := range spans {
		slices[i] = Slice{Index: i, Start: start, Span: span}
		start += span
	}
	return slices
}

// Normalize maps any angle into [0, 2π)
func Normalize(angle float64) float64 {
	a := math.Mod(angle, FullTurn)
	if a < 0 {
		a += FullTurn
	}
	// Mod of a tiny negative value can round up to exactly FullTurn
	if a >= FullTurn {
		a = 0
	}
	return a
}

// IndexAt returns the index of the slice containing angle
// Slices are walked in order and the first with angle < cumulative upper bound wins,
// so a boundary angle belongs to the following slice
func IndexAt(slices []Slice, angle float64) int {
	if len(slices) == 0 {
		return -1
	}
	a := Normalize(angle)
	acc := 0.0
	for i, s := range slices {
		acc += s.Span
		if a < acc {
			return i
		}
	}
	// Rounding can leave spans summing a hair under 2π
	return slices[len(slices)-1].Index
}
