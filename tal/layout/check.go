package layout

import (
	"fmt"

	"nyiyui.ca/hato/rail"
)

// IsGeometryValid reports whether ref is live and has a geometry with at least 2 points.
func (y *Layout) IsGeometryValid(ref SegmentRef) bool {
	s, ok := y.Get(ref)
	if !ok || s.Geometry == nil {
		return false
	}
	return s.Geometry.PointCount() > 1
}

// linksBack reports whether neighbor links back to ref through either of its ends.
func (y *Layout) linksBack(ref, neighbor SegmentRef) bool {
	n, ok := y.Get(neighbor)
	if !ok {
		return false
	}
	return n.North == ref || n.South == ref
}

// IsMutuallyConnected reports whether every set link of ref is reciprocated.
// A dead ref, or a segment without links, is trivially connected.
func (y *Layout) IsMutuallyConnected(ref SegmentRef) bool {
	s, ok := y.Get(ref)
	if !ok {
		return true
	}
	if !s.North.IsZero() && !y.linksBack(ref, s.North) {
		return false
	}
	if !s.South.IsZero() && !y.linksBack(ref, s.South) {
		return false
	}
	return true
}

// ConfigurationWarnings returns the problems with ref's configuration.
func (y *Layout) ConfigurationWarnings(ref SegmentRef) []rail.Warning {
	var ws []rail.Warning
	if !y.IsGeometryValid(ref) {
		ws = append(ws, rail.Warning{
			Kind:    rail.GeometryInvalid,
			Message: fmt.Sprintf("segment %s: geometry invalid", y.describe(ref)),
		})
	}
	if !y.IsMutuallyConnected(ref) {
		ws = append(ws, rail.Warning{
			Kind:    rail.NotMutuallyConnected,
			Message: fmt.Sprintf("segment %s: links not mutually connected", y.describe(ref)),
		})
	}
	return ws
}

// AllWarnings returns ConfigurationWarnings for all live segments, in slot order.
func (y *Layout) AllWarnings() []rail.Warning {
	var ws []rail.Warning
	for _, ref := range y.Refs() {
		ws = append(ws, y.ConfigurationWarnings(ref)...)
	}
	return ws
}

func (y *Layout) describe(ref SegmentRef) string {
	s, ok := y.Get(ref)
	if !ok || s.Comment == "" {
		return ref.String()
	}
	return fmt.Sprintf("%s %s", ref, s.Comment)
}
