package layout

import (
	"fmt"

	"golang.org/x/exp/slices"
	"nyiyui.ca/hato/rail"
)

// Turnout selects one of several candidate segments.
// It doesn't change any segment's links; hopping followers ignore it.
type Turnout struct {
	// Comment is a human-readable comment about the turnout.
	Comment string
	points  []SegmentRef
	current int
	// Reporter gets warnings when the current point is reset. Defaults to rail.LogReporter.
	Reporter rail.Reporter
}

func NewTurnout(comment string, points []SegmentRef) *Turnout {
	return &Turnout{
		Comment: comment,
		points:  slices.Clone(points),
	}
}

func (t *Turnout) reporter() rail.Reporter {
	if t.Reporter == nil {
		return rail.LogReporter{}
	}
	return t.Reporter
}

func (t *Turnout) reset(reason string) {
	t.current = 0
	t.reporter().Warn(rail.Warning{
		Kind:    rail.TurnoutReset,
		Message: fmt.Sprintf("turnout %s: %s, setting current point to 0", t.Comment, reason),
	})
}

// Points returns a copy of the candidate list.
func (t *Turnout) Points() []SegmentRef {
	return slices.Clone(t.points)
}

// Current returns the index of the selected point.
func (t *Turnout) Current() int {
	return t.current
}

// Selected returns the selected point. It returns false if there are no points.
func (t *Turnout) Selected() (SegmentRef, bool) {
	if len(t.points) == 0 {
		return SegmentRef{}, false
	}
	return t.points[t.current], true
}

// SetCurrent selects point i.
func (t *Turnout) SetCurrent(i int) error {
	if i < 0 || i >= len(t.points) {
		return fmt.Errorf("turnout %s: select %d of %d points: %w", t.Comment, i, len(t.points), rail.ErrIndexOutOfRange)
	}
	t.current = i
	return nil
}

// SetPoints replaces the candidate list. If the current point is outside of the new list, it is reset to 0.
func (t *Turnout) SetPoints(points []SegmentRef) (reset bool) {
	t.points = slices.Clone(points)
	if t.current != 0 && t.current >= len(t.points) {
		t.reset("current point is outside of range of new point list")
		return true
	}
	return false
}

// AddPoint appends a point and returns its index.
func (t *Turnout) AddPoint(ref SegmentRef) int {
	t.points = append(t.points, ref)
	return len(t.points) - 1
}

// RemovePoint removes point i.
// If the removal is at or after the current point, the current point is reset to 0 (it was probably moved to a new spot).
func (t *Turnout) RemovePoint(i int) (reset bool, err error) {
	if i < 0 || i >= len(t.points) {
		return false, fmt.Errorf("turnout %s: remove %d of %d points: %w", t.Comment, i, len(t.points), rail.ErrIndexOutOfRange)
	}
	t.points = slices.Delete(t.points, i, i+1)
	switch {
	case t.current <= i:
		t.reset("current point index was probably moved to a new spot")
		return true, nil
	case t.current >= len(t.points):
		t.reset("current point is outside of range of new point list")
		return true, nil
	}
	return false, nil
}
