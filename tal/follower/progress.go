package follower

import (
	"fmt"
	"math"

	"nyiyui.ca/hato/rail"
	"nyiyui.ca/hato/rail/tal/layout"
)

// Outcome is what SetProgress did with the new progress.
type Outcome int

const (
	// Unbounded means there was no valid geometry to check against; progress was stored as is.
	Unbounded Outcome = iota
	// InRange means progress was within the current segment.
	InRange
	// Hopped means progress overshot the current segment and continues on a neighbour.
	Hopped
	// Clamped means progress overshot the current segment with no neighbour to hop to, and was clamped.
	Clamped
)

func (o Outcome) String() string {
	switch o {
	case Unbounded:
		return "unbounded"
	case InRange:
		return "in-range"
	case Hopped:
		return "hopped"
	case Clamped:
		return "clamped"
	default:
		return fmt.Sprint(int(o))
	}
}

// Step describes the result of a SetProgress or Advance call.
type Step struct {
	Outcome Outcome
	// From is the segment before the call.
	From layout.SegmentRef
	// To is the segment after the call. Same as From unless Outcome is Hopped.
	To layout.SegmentRef
	// Warning is set when Outcome is Clamped.
	Warning *rail.Warning
}

// next returns the neighbour in the direction progress overshoots to (north if past the end, south if before the start).
// It returns false if there is no neighbour, or the neighbour has no usable geometry.
func (f *Follower) next(progress, length float64) (layout.SegmentRef, bool) {
	s, ok := f.y.Get(f.segment)
	if !ok {
		return layout.SegmentRef{}, false
	}
	var n layout.SegmentRef
	switch {
	case progress > length:
		n = s.North
	case progress < 0:
		n = s.South
	default:
		return layout.SegmentRef{}, false
	}
	if !f.y.IsGeometryValid(n) {
		return layout.SegmentRef{}, false
	}
	return n, true
}

// SetProgress sets the distance along the current segment.
// If progress is outside the segment, this hops to the linked segment in that direction, carrying over the overshoot.
// Only one hop is made per call; if the overshoot is longer than the next segment, progress is left outside of it.
// With nothing to hop to, progress is clamped to the segment and a HopFailed warning is reported.
// SetProgress panics if progress is NaN or infinite.
func (f *Follower) SetProgress(progress float64) Step {
	if math.IsNaN(progress) || math.IsInf(progress, 0) {
		panic(fmt.Errorf("follower: progress %v is not finite: %w", progress, rail.ErrInvariantViolation))
	}
	f.progress = progress
	step := Step{From: f.segment, To: f.segment}
	length, ok := f.length()
	switch {
	case !ok:
		step.Outcome = Unbounded
		return step
	case progress >= 0 && progress <= length:
		step.Outcome = InRange
	default:
		// overshot: hop to the neighbour in that direction
		// or clamp if there is none
		if n, ok := f.next(progress, length); ok {
			f.segment = n
			if progress < 0 {
				f.progress = progress + f.y.MustGet(n).Geometry.BakedLength()
			} else {
				f.progress = progress - length
			}
			step.Outcome = Hopped
			step.To = n
		} else {
			f.progress = math.Max(0, math.Min(progress, length))
			w := rail.Warning{
				Kind:    rail.HopFailed,
				Message: fmt.Sprintf("follower: no segment to hop to from %s at progress %g (length %g), clamped to %g", step.From, progress, length, f.progress),
			}
			f.reporter.Warn(w)
			step.Outcome = Clamped
			step.Warning = &w
		}
	}
	f.recomputePose()
	return step
}

// Advance moves progress by amount. See SetProgress.
func (f *Follower) Advance(amount float64) Step {
	return f.SetProgress(f.progress + amount)
}

// CanProgress reports whether progress is within the current segment, or there is a segment to hop to in its direction.
func (f *Follower) CanProgress(progress float64) bool {
	length, ok := f.length()
	if !ok {
		return false
	}
	if progress >= 0 && progress <= length {
		return true
	}
	_, ok = f.next(progress, length)
	return ok
}

// CanAdvance is CanProgress for the current progress moved by amount.
func (f *Follower) CanAdvance(amount float64) bool {
	return f.CanProgress(f.progress + amount)
}
