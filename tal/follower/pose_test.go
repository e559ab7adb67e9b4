package follower

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"nyiyui.ca/hato/rail"
	"nyiyui.ca/hato/rail/tal/curve"
	"nyiyui.ca/hato/rail/tal/layout"
	"seehuhn.de/go/geom/vec"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestPose(t *testing.T) {
	y, _, b := testbench(t)
	f := New(y, Conf{
		Segment:       b,
		Progress:      2,
		HOffset:       1,
		VOffset:       2,
		Interpolation: Linear,
		Reporter:      rail.Discard,
	})
	// B points up (+y), so its side axis points to -x
	expected := Pose{Position: vec.Vec2{X: 8, Y: 3}, Rotation: math.Pi / 2}
	if got := f.Pose(); !cmp.Equal(got, expected, approx) {
		t.Fatalf("rotated pose diff: %s", cmp.Diff(expected, got, approx))
	}

	f.SetRotationEnabled(false)
	// offsets in world axes, rotation untouched
	expected = Pose{Position: vec.Vec2{X: 11, Y: 4}, Rotation: math.Pi / 2}
	if got := f.Pose(); !cmp.Equal(got, expected, approx) {
		t.Fatalf("unrotated pose diff: %s", cmp.Diff(expected, got, approx))
	}

	f.SetHOffset(0)
	f.SetVOffset(0)
	expected.Position = vec.Vec2{X: 10, Y: 2}
	if got := f.Pose(); !cmp.Equal(got, expected, approx) {
		t.Fatalf("no offset pose diff: %s", cmp.Diff(expected, got, approx))
	}
}

func TestPoseAcrossHop(t *testing.T) {
	y, a, _ := testbench(t)
	f := New(y, Conf{Segment: a, Interpolation: Linear, Reporter: rail.Discard})
	if got := f.Pose(); !cmp.Equal(got, Pose{}, approx) {
		t.Fatalf("pose at start: %#v", got)
	}
	f.Advance(13)
	expected := Pose{Position: vec.Vec2{X: 10, Y: 3}, Rotation: math.Pi / 2}
	if got := f.Pose(); !cmp.Equal(got, expected, approx) {
		t.Fatalf("pose diff: %s", cmp.Diff(expected, got, approx))
	}
}

func TestPoseCubicAtBakedPoint(t *testing.T) {
	y, a, _ := testbench(t)
	f := New(y, Conf{Segment: a, Progress: 5, Reporter: rail.Discard})
	if f.Interpolation() != Cubic {
		t.Fatalf("expected cubic by default, got %s", f.Interpolation())
	}
	expected := Pose{Position: vec.Vec2{X: 5, Y: 0}}
	if got := f.Pose(); !cmp.Equal(got, expected, approx) {
		t.Fatalf("pose diff: %s", cmp.Diff(expected, got, approx))
	}
}

func TestPoseZeroLength(t *testing.T) {
	y, a, _ := testbench(t)
	f := New(y, Conf{Segment: a, Progress: 4, Interpolation: Linear, Reporter: rail.Discard})
	before := f.Pose()
	zero := y.Add(layout.Segment{Geometry: curve.FromPoints([]vec.Vec2{{X: 3, Y: 3}, {X: 3, Y: 3}}, 0)})
	f.SetSegment(zero)
	if got := f.Pose(); got != before {
		t.Fatalf("pose changed on zero-length segment: %#v → %#v", before, got)
	}
}

func TestMarkDirty(t *testing.T) {
	y, _, b := testbench(t)
	f := New(y, Conf{Segment: b, Progress: 4, Interpolation: Linear, Reporter: rail.Discard})
	before := f.Pose()
	// rebake B somewhere else
	y.MustGet(b).Geometry = curve.FromPoints([]vec.Vec2{{X: 20, Y: 0}, {X: 20, Y: 5}}, 0)
	if got := f.Pose(); got != before {
		t.Fatal("pose recomputed before MarkDirty")
	}
	f.MarkDirty()
	expected := Pose{Position: vec.Vec2{X: 20, Y: 4}, Rotation: math.Pi / 2}
	if got := f.Pose(); !cmp.Equal(got, expected, approx) {
		t.Fatalf("pose diff: %s", cmp.Diff(expected, got, approx))
	}
	// idempotent
	f.MarkDirty()
	if got := f.Pose(); !cmp.Equal(got, expected, approx) {
		t.Fatalf("pose diff after second recompute: %s", cmp.Diff(expected, got, approx))
	}
}
