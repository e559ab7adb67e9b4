package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"nyiyui.ca/hato/rail"
	"nyiyui.ca/hato/rail/tal/curve"
)

func TestTestbench6(t *testing.T) {
	tb, err := InitTestbench6()
	if err != nil {
		t.Fatal(err)
	}
	y := tb.Layout
	nagase1, mitouc2, mitouc3, snb4 := y.MustLookup("nagase1"), y.MustLookup("mitouc2"), y.MustLookup("mitouc3"), y.MustLookup("snb4")
	if got := y.ChainLength(nagase1); math.Abs(got-(558+992+558)) > 1e-6 {
		t.Fatalf("ChainLength: %g", got)
	}
	// the loop rejoins the main line
	end := y.MustGet(mitouc3).Geometry.(*curve.Curve).BakedPoints()
	if last := end[len(end)-1]; math.Abs(last.X-1550) > 1e-6 || math.Abs(last.Y) > 1e-6 {
		t.Fatalf("mitouc3 ends at %v", last)
	}
	if l := y.MustGet(mitouc3).Geometry.BakedLength(); l <= 992 {
		t.Fatalf("mitouc3 is not longer than mitouc2: %g", l)
	}

	expected := []SegmentRef{mitouc2, snb4}
	if got := y.PathTo(nagase1, snb4); !cmp.Equal(got, expected) {
		t.Fatalf("PathTo diff: %s", cmp.Diff(expected, got))
	}
	if y.IsMutuallyConnected(mitouc3) {
		t.Fatal("mitouc3 should not be mutually connected before throwing")
	}

	if err := tb.Throw("nagase1", 1); err != nil {
		t.Fatal(err)
	}
	if err := tb.Throw("snb4", 1); err != nil {
		t.Fatal(err)
	}
	expected = []SegmentRef{mitouc3, snb4}
	if got := y.PathTo(nagase1, snb4); !cmp.Equal(got, expected) {
		t.Fatalf("PathTo diff after throwing: %s", cmp.Diff(expected, got))
	}
	if !y.IsMutuallyConnected(mitouc3) {
		t.Fatal("mitouc3 should be mutually connected after throwing")
	}
	if y.IsMutuallyConnected(mitouc2) {
		t.Fatal("mitouc2 should not be mutually connected after throwing")
	}

	if err := tb.Throw("nagase1", 2); !errors.Is(err, rail.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if err := tb.Throw("nope", 0); err == nil {
		t.Fatal("expected error for unknown turnout")
	}
}

func TestConnectGroups(t *testing.T) {
	y, refs, err := ConnectGroups([]Group{
		{
			Prefix:   "a",
			Segments: []Segment{straight("a0", 1), straight("a1", 2)},
			North:    &GroupJoin{TargetPrefix: "b", TargetEnd: EndNorth},
		},
		{
			Prefix:   "b",
			Segments: []Segment{straight("b0", 3)},
			North:    &GroupJoin{TargetPrefix: "a", TargetEnd: EndNorth},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	a, b := refs["a"], refs["b"]
	if len(a) != 2 || len(b) != 1 {
		t.Fatalf("refs: %#v", refs)
	}
	if got := y.MustGet(a[0]).North; got != a[1] {
		t.Fatalf("a0 north: %s", got)
	}
	if got := y.MustGet(a[1]).North; got != b[0] {
		t.Fatalf("a1 north: %s", got)
	}
	if got := y.MustGet(b[0]).North; got != a[1] {
		t.Fatalf("b0 north: %s", got)
	}
	// north to north joins don't link back through south
	if y.IsMutuallyConnected(a[1]) {
		t.Fatal("a1 should not be mutually connected")
	}

	type setup struct {
		name   string
		groups []Group
	}
	setups := []setup{
		{"empty", []Group{{Prefix: "a"}}},
		{"duplicate", []Group{{Prefix: "a", Segments: []Segment{straight("", 1)}}, {Prefix: "a", Segments: []Segment{straight("", 1)}}}},
		{"no-geometry", []Group{{Prefix: "a", Segments: []Segment{{Comment: "x"}}}}},
		{"no-target", []Group{{Prefix: "a", Segments: []Segment{straight("", 1)}, South: &GroupJoin{TargetPrefix: "z", TargetEnd: EndNorth}}}},
		{"bad-end", []Group{{Prefix: "a", Segments: []Segment{straight("", 1)}, South: &GroupJoin{TargetPrefix: "a"}}}},
	}
	for _, s := range setups {
		t.Run(s.name, func(t *testing.T) {
			if _, _, err := ConnectGroups(s.groups); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
