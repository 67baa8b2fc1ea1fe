package budget

import (
	"testing"

	"novad/pkg/types"
)

// fixedProbe reports a constant allocator state.
type fixedProbe struct {
	total float64
	used  float64
}

func (p fixedProbe) TotalGB() float64 { return p.total }
func (p fixedProbe) UsedGB() float64  { return p.used }

func testEntries() []types.Descriptor {
	return []types.Descriptor{
		{ID: "a", EstMemoryGB: 1.5},
		{ID: "b", EstMemoryGB: 3.0},
		{ID: "c", EstMemoryGB: 6.0},
	}
}

func TestDetectTotalGB(t *testing.T) {
	e := NewEstimator(fixedProbe{total: 8})
	if got := e.DetectTotalGB(); got != 8 {
		t.Fatalf("expected 8 got %v", got)
	}
	e.SetForceCPU(true)
	if got := e.DetectTotalGB(); got != 0 {
		t.Fatalf("force-cpu should report 0, got %v", got)
	}
	if !e.ForceCPU() {
		t.Fatalf("ForceCPU flag lost")
	}
}

func TestDetectNilProbe(t *testing.T) {
	e := NewEstimator(nil)
	if got := e.DetectTotalGB(); got != 0 {
		t.Fatalf("expected 0 got %v", got)
	}
}

func TestUsageSentinel(t *testing.T) {
	e := NewEstimator(fixedProbe{total: 8, used: 2.5})
	used, total := e.Usage()
	if used != 2.5 || total != 8 {
		t.Fatalf("got (%v,%v)", used, total)
	}
	e.SetForceCPU(true)
	used, total = e.Usage()
	if used != 0 || total != 0 {
		t.Fatalf("force-cpu usage should be (0,0), got (%v,%v)", used, total)
	}
}

func TestEffectiveLimit(t *testing.T) {
	cases := []struct {
		detected float64
		ceiling  float64
		want     float64
	}{
		{8, 6, 6},
		{4, 6, 4},
		{0, 6, 6},
		{8, 0, 8},
		{0, 0, 0},
	}
	for _, tc := range cases {
		e := NewEstimator(fixedProbe{total: tc.detected})
		if got := e.EffectiveLimit(tc.ceiling); got != tc.want {
			t.Fatalf("detected=%v ceiling=%v: got %v want %v", tc.detected, tc.ceiling, got, tc.want)
		}
	}
}

func TestSelectBestFitMonotonicity(t *testing.T) {
	entries := testEntries()
	cases := []struct {
		limit float64
		want  string
	}{
		{0, "a"},   // CPU-only: smallest footprint
		{1.0, "a"}, // nothing fits: smallest footprint
		{1.5, "a"},
		{2.9, "a"},
		{3.0, "b"},
		{4.0, "b"},
		{6.0, "c"},
		{100, "c"},
	}
	for _, tc := range cases {
		d, ok := SelectBestFit(entries, tc.limit)
		if !ok {
			t.Fatalf("limit=%v: no selection", tc.limit)
		}
		if d.ID != tc.want {
			t.Fatalf("limit=%v: got %q want %q", tc.limit, d.ID, tc.want)
		}
	}
}

func TestSelectBestFitTieBreakStable(t *testing.T) {
	entries := []types.Descriptor{
		{ID: "first", EstMemoryGB: 2.0},
		{ID: "second", EstMemoryGB: 2.0},
	}
	d, ok := SelectBestFit(entries, 4.0)
	if !ok || d.ID != "first" {
		t.Fatalf("expected declaration-order tie-break, got %+v", d)
	}
}

func TestSelectBestFitEmpty(t *testing.T) {
	if _, ok := SelectBestFit(nil, 4.0); ok {
		t.Fatalf("expected no selection for empty registry")
	}
}
