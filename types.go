// Package rail holds the types shared by the rail network packages: warning
// kinds, the reporter used to surface them, and sentinel errors.
package rail

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrInvariantViolation is wrapped by panics caused by programmer errors
	// (e.g. a non-finite progress value).
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrIndexOutOfRange is returned when an index does not refer to an
	// existing element. The call that returned it did not mutate anything.
	ErrIndexOutOfRange = errors.New("index out of range")
)

type WarningKind int

const (
	// GeometryInvalid means a segment has no geometry, or a geometry with less than 2 points.
	GeometryInvalid WarningKind = iota + 1
	// NotMutuallyConnected means a segment links to a neighbour that doesn't link back.
	NotMutuallyConnected
	// HopFailed means progress overshot a segment with no usable neighbour, and was clamped.
	HopFailed
	// TurnoutReset means a turnout's current point was reset to 0 after its points changed.
	TurnoutReset
	// NoSegment means a follower doesn't point at a live segment.
	NoSegment
)

func (k WarningKind) String() string {
	switch k {
	case GeometryInvalid:
		return "geometry-invalid"
	case NotMutuallyConnected:
		return "not-mutually-connected"
	case HopFailed:
		return "hop-failed"
	case TurnoutReset:
		return "turnout-reset"
	case NoSegment:
		return "no-segment"
	default:
		return fmt.Sprint(int(k))
	}
}

// Warning is a non-fatal, advisory condition.
// Warnings never abort the operation that raised them.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// Reporter receives warnings as they are raised by mutating operations.
type Reporter interface {
	Warn(w Warning)
}

type ReporterFunc func(w Warning)

func (f ReporterFunc) Warn(w Warning) { f(w) }

// LogReporter logs warnings to the global zap logger.
type LogReporter struct{}

func (LogReporter) Warn(w Warning) {
	zap.S().Warnw(w.Message, "kind", w.Kind.String())
}

// Discard drops all warnings.
var Discard Reporter = ReporterFunc(func(Warning) {})
