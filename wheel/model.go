package wheel

// Model holds the live bias and the slice layout derived from it
// Not safe for concurrent use; the engine loop owns it
type Model struct {
	variant Variant
	bias    float64
	slices  []Slice
}

// NewModel creates a model and computes its initial layout
func NewModel(v Variant, bias float64) *Model {
	m := &Model{variant: v}
	m.SetBias(bias)
	return m
}

// Variant returns the layout variant
func (m *Model) Variant() Variant {
	return m.variant
}

// Bias returns the current bias value
func (m *Model) Bias() float64 {
	return m.bias
}

// SetBias stores the bias and recomputes slices
// Returns false when the layout did not change (fixed variant or same value)
func (m *Model) SetBias(bias float64) bool {
	if m.slices != nil && bias == m.bias {
		return false
	}
	m.bias = bias
	m.slices = Compute(m.variant, bias)
	return m.variant == VariantBiased
}

// Slices returns the current layout, callers must not modify it
func (m *Model) Slices() []Slice {
	return m.slices
}

// Snapshot returns a copy of the layout for a spin to own
func (m *Model) Snapshot() []Slice {
	out := make([]Slice, len(m.slices))
	copy(out, m.slices)
	return out
}
