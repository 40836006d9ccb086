package main

import (
	"bytes"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"

	"github.com/lixenwraith/prize-wheel/sim"
)

func TestReportJSON(t *testing.T) {
	var buf bytes.Buffer
	missing := filepath.Join(t.TempDir(), "none.yaml")
	args := []string{"-config", missing, "-spins", "500", "-workers", "2", "-seed", "3", "-bias", "0.5", "-policy", "pre"}
	if err := run(args, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}

	var r sim.Report
	if err := jsoniter.Unmarshal(buf.Bytes(), &r); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if r.Spins != 500 || r.Seed != 3 || r.Bias != 0.5 || r.Policy != "pre" || r.Variant != "biased" {
		t.Errorf("report header %+v", r)
	}
	if len(r.Slices) != 2 || r.Slices[0].Label != "Mi" || r.Slices[0].Wins+r.Slices[1].Wins != 500 {
		t.Errorf("slices %+v", r.Slices)
	}
}

func TestInvalidOverride(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")
	if err := run([]string{"-config", missing, "-bias", "2"}, &bytes.Buffer{}); err == nil {
		t.Error("out of range bias accepted")
	}
	if err := run([]string{"-config", missing, "-spins", "0"}, &bytes.Buffer{}); err == nil {
		t.Error("zero spins accepted")
	}
}
