// Package follower tracks a position ("progress") along a rail layout, hopping between linked segments when progress runs off the end of one.
package follower

import (
	"fmt"
	"math"

	"nyiyui.ca/hato/rail"
	"nyiyui.ca/hato/rail/tal/layout"
	"seehuhn.de/go/geom/vec"
)

type Interpolation int

const (
	Cubic Interpolation = iota
	Linear
)

func (i Interpolation) String() string {
	switch i {
	case Cubic:
		return "cubic"
	case Linear:
		return "linear"
	default:
		return fmt.Sprint(int(i))
	}
}

// Pose is where a follower is in world space.
type Pose struct {
	Position vec.Vec2
	// Rotation in radians. Only updated when rotation is enabled.
	Rotation float64
}

type Conf struct {
	Segment  layout.SegmentRef
	Progress float64
	// HOffset is applied along the forward axis (or the x axis without rotation).
	HOffset float64
	// VOffset is applied along the side axis (or the y axis without rotation).
	VOffset         float64
	RotationDisable bool
	Interpolation   Interpolation
	// Reporter gets warnings (e.g. failed hops). Defaults to rail.LogReporter.
	Reporter rail.Reporter
}

// Follower follows segments in a layout.
// It must be used by one goroutine at a time.
type Follower struct {
	y        *layout.Layout
	segment  layout.SegmentRef
	progress float64

	hOffset         float64
	vOffset         float64
	rotationEnabled bool
	interpolation   Interpolation
	reporter        rail.Reporter

	pose  Pose
	dirty bool
}

// New makes a follower on y. conf.Progress is applied with SetProgress, so it may hop.
func New(y *layout.Layout, conf Conf) *Follower {
	f := &Follower{
		y:               y,
		segment:         conf.Segment,
		hOffset:         conf.HOffset,
		vOffset:         conf.VOffset,
		rotationEnabled: !conf.RotationDisable,
		interpolation:   conf.Interpolation,
		reporter:        conf.Reporter,
	}
	if f.reporter == nil {
		f.reporter = rail.LogReporter{}
	}
	f.SetProgress(conf.Progress)
	return f
}

// Segment returns the current segment. It may have been removed from the layout since.
func (f *Follower) Segment() layout.SegmentRef {
	return f.segment
}

func (f *Follower) Progress() float64 {
	return f.progress
}

func (f *Follower) HOffset() float64 { return f.hOffset }

func (f *Follower) VOffset() float64 { return f.vOffset }

func (f *Follower) RotationEnabled() bool { return f.rotationEnabled }

func (f *Follower) Interpolation() Interpolation { return f.interpolation }

func (f *Follower) Layout() *layout.Layout { return f.y }

// SetReporter replaces the reporter warnings go to. nil means rail.LogReporter.
func (f *Follower) SetReporter(r rail.Reporter) {
	if r == nil {
		r = rail.LogReporter{}
	}
	f.reporter = r
}

func (f *Follower) cubic() bool { return f.interpolation == Cubic }

// SetSegment replaces the current segment. Progress is kept as is.
func (f *Follower) SetSegment(ref layout.SegmentRef) {
	f.segment = ref
	f.recomputePose()
}

func (f *Follower) SetHOffset(offset float64) {
	f.hOffset = offset
	f.recomputePose()
}

func (f *Follower) SetVOffset(offset float64) {
	f.vOffset = offset
	f.recomputePose()
}

func (f *Follower) SetRotationEnabled(enabled bool) {
	f.rotationEnabled = enabled
	f.recomputePose()
}

func (f *Follower) SetInterpolation(i Interpolation) {
	f.interpolation = i
	f.recomputePose()
}

// Followed returns the geometry of the current segment.
// It returns false if the segment is gone, or has no geometry.
func (f *Follower) Followed() (layout.Geometry, bool) {
	s, ok := f.y.Get(f.segment)
	if !ok || s.Geometry == nil {
		return nil, false
	}
	return s.Geometry, true
}

// length returns the baked length of the current segment, if its geometry is valid.
func (f *Follower) length() (float64, bool) {
	if !f.y.IsGeometryValid(f.segment) {
		return 0, false
	}
	return f.y.MustGet(f.segment).Geometry.BakedLength(), true
}

// ProgressRatio returns progress as a ratio of the current segment's length.
// Returns 0 if there is no valid segment, or its length is 0.
func (f *Follower) ProgressRatio() float64 {
	length, ok := f.length()
	if !ok || length <= 0 {
		return 0
	}
	return f.progress / length
}

// MarkDirty makes the next Pose call recompute the pose, e.g. after the current segment's geometry was rebaked.
func (f *Follower) MarkDirty() {
	f.dirty = true
}

// Pose returns the latest pose.
func (f *Follower) Pose() Pose {
	if f.dirty {
		f.recomputePose()
	}
	return f.pose
}

// recomputePose updates the pose from the current segment and progress.
// It keeps the previous pose if there is nothing to sample.
func (f *Follower) recomputePose() {
	f.dirty = false
	length, ok := f.length()
	if !ok || length == 0 {
		return
	}
	g := f.y.MustGet(f.segment).Geometry
	if f.rotationEnabled {
		m := g.SampleWithRotation(f.progress, f.cubic())
		// translate in the local frame
		f.pose.Position = vec.Vec2{
			X: m[4] + m[0]*f.hOffset + m[2]*f.vOffset,
			Y: m[5] + m[1]*f.hOffset + m[3]*f.vOffset,
		}
		f.pose.Rotation = math.Atan2(m[1], m[0])
	} else {
		pos := g.Sample(f.progress, f.cubic())
		f.pose.Position = pos.Add(vec.Vec2{X: f.hOffset, Y: f.vOffset})
	}
}

// ConfigurationWarnings returns the problems with the follower's configuration.
func (f *Follower) ConfigurationWarnings() []rail.Warning {
	if _, ok := f.y.Get(f.segment); !ok {
		return []rail.Warning{{
			Kind:    rail.NoSegment,
			Message: "follower needs to point at a valid segment",
		}}
	}
	if !f.y.IsGeometryValid(f.segment) {
		return []rail.Warning{{
			Kind:    rail.GeometryInvalid,
			Message: fmt.Sprintf("follower's segment %s: geometry invalid", f.segment),
		}}
	}
	return nil
}
