package wheel

import (
	"math"
	"testing"
)

func TestModelRecomputesOnBiasChange(t *testing.T) {
	m := NewModel(VariantBiased, 0)
	before := m.Slices()[0].Span

	if !m.SetBias(0.5) {
		t.Fatal("expected layout change for new bias")
	}
	after := m.Slices()[0].Span
	if after <= before {
		t.Errorf("positive bias should widen slice 0: %f -> %f", before, after)
	}

	// Same bias is idempotent
	if m.SetBias(0.5) {
		t.Error("expected no change for identical bias")
	}
	if m.Slices()[0].Span != after {
		t.Error("identical bias altered layout")
	}
}

func TestModelSnapshotIsIndependent(t *testing.T) {
	m := NewModel(VariantBiased, -0.4)
	snap := m.Snapshot()

	m.SetBias(0.8)
	if snap[0].Span == m.Slices()[0].Span {
		t.Fatal("snapshot tracked live layout")
	}
	want := Biased(-0.4)[0].Span
	if math.Abs(snap[0].Span-want) > eps {
		t.Errorf("snapshot span %f, want %f", snap[0].Span, want)
	}
}

func TestModelFixedVariant(t *testing.T) {
	m := NewModel(VariantFixed, 0.9)
	if m.SetBias(-0.9) {
		t.Error("fixed variant should report no layout change")
	}
	if m.Bias() != -0.9 {
		t.Errorf("bias not stored: %f", m.Bias())
	}
	if m.Slices()[0].Span != math.Pi {
		t.Errorf("fixed span %f", m.Slices()[0].Span)
	}
}
