package layout

import (
	"fmt"

	"github.com/google/uuid"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Geometry is a baked path that a segment follows.
// Implementations must be pure: sampling never has side effects.
type Geometry interface {
	// PointCount is the number of points defining the path (not baked points).
	PointCount() int
	// BakedLength is the arc length of the baked path. Must be ≥ 0.
	BakedLength() float64
	// Sample returns the position at offset along the path.
	Sample(offset float64, cubic bool) vec.Vec2
	// SampleWithRotation returns the frame at offset along the path.
	// (M[0], M[1]) is the forward axis, (M[2], M[3]) the side axis, and (M[4], M[5]) the position.
	SampleWithRotation(offset float64, cubic bool) matrix.Matrix
}

// SegmentRef references a Segment in a Layout.
// The zero value references nothing; it is used for unset links.
type SegmentRef struct {
	Index int
	// Gen is the generation of the slot. A removed segment's slot gets a new generation, so old refs stop resolving.
	Gen uint32
}

func (r SegmentRef) String() string {
	if r.IsZero() {
		return "<s:NA>"
	}
	return fmt.Sprintf("<s:%d/%d>", r.Index, r.Gen)
}

func (r SegmentRef) IsZero() bool {
	return r == SegmentRef{}
}

// Segment is a piece of rail.
// Its north end is where progress reaches BakedLength, and its south end is where progress is 0.
type Segment struct {
	ID uuid.UUID
	// Comment is a human-readable comment about the segment.
	Comment string
	// North is the segment continuing past the north end. Zero if none.
	North SegmentRef
	// South is the segment continuing past the south end. Zero if none.
	South    SegmentRef
	Geometry Geometry
}

type slot struct {
	gen     uint32
	live    bool
	segment Segment
}

// Layout owns segments. Segments link to each other with SegmentRefs, and links may be dangling, asymmetric, or cyclic.
type Layout struct {
	slots []slot
	// free is the list of dead slots to reuse.
	free []int
}

func New() *Layout {
	return &Layout{}
}

// Add adds a segment and returns a ref to it. A nil ID is replaced with a random one.
func (y *Layout) Add(s Segment) SegmentRef {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if n := len(y.free); n > 0 {
		i := y.free[n-1]
		y.free = y.free[:n-1]
		sl := &y.slots[i]
		sl.gen++
		sl.live = true
		sl.segment = s
		return SegmentRef{Index: i, Gen: sl.gen}
	}
	y.slots = append(y.slots, slot{gen: 1, live: true, segment: s})
	return SegmentRef{Index: len(y.slots) - 1, Gen: 1}
}

// Remove removes a segment. Links to it from other segments are left dangling.
func (y *Layout) Remove(ref SegmentRef) bool {
	if _, ok := y.Get(ref); !ok {
		return false
	}
	sl := &y.slots[ref.Index]
	sl.live = false
	sl.segment = Segment{}
	// bump now so refs held elsewhere stop resolving even before the slot is reused
	sl.gen++
	y.free = append(y.free, ref.Index)
	return true
}

// Get resolves ref. It returns false if ref is zero, or the segment was removed.
func (y *Layout) Get(ref SegmentRef) (*Segment, bool) {
	if ref.IsZero() || ref.Index < 0 || ref.Index >= len(y.slots) {
		return nil, false
	}
	sl := &y.slots[ref.Index]
	if !sl.live || sl.gen != ref.Gen {
		return nil, false
	}
	return &sl.segment, true
}

// MustGet is Get but panics if ref doesn't resolve.
func (y *Layout) MustGet(ref SegmentRef) *Segment {
	s, ok := y.Get(ref)
	if !ok {
		panic(fmt.Sprintf("segment %s doesn't exist", ref))
	}
	return s
}

// Refs returns refs to all live segments, in slot order.
func (y *Layout) Refs() []SegmentRef {
	refs := make([]SegmentRef, 0, len(y.slots)-len(y.free))
	for i, sl := range y.slots {
		if sl.live {
			refs = append(refs, SegmentRef{Index: i, Gen: sl.gen})
		}
	}
	return refs
}

// Len returns the number of live segments.
func (y *Layout) Len() int {
	return len(y.slots) - len(y.free)
}

// MustLookup finds a segment with a matching comment. If it doesn't it panics.
// This is for debugging/testing.
func (y *Layout) MustLookup(comment string) SegmentRef {
	ref, ok := y.Lookup(comment)
	if !ok {
		panic(fmt.Sprintf("found nothing when looking up for %s", comment))
	}
	return ref
}

// Lookup finds the first live segment with a matching comment.
func (y *Layout) Lookup(comment string) (SegmentRef, bool) {
	for i, sl := range y.slots {
		if sl.live && sl.segment.Comment == comment {
			return SegmentRef{Index: i, Gen: sl.gen}, true
		}
	}
	return SegmentRef{}, false
}

// SetNorth sets the north link of ref. to may be zero to break the link.
// The link isn't checked: to may be dead, or may not link back.
func (y *Layout) SetNorth(ref, to SegmentRef) {
	y.MustGet(ref).North = to
}

// SetSouth sets the south link of ref. to may be zero to break the link.
func (y *Layout) SetSouth(ref, to SegmentRef) {
	y.MustGet(ref).South = to
}

// Link links the north end of south to the south end of north, both ways.
func (y *Layout) Link(south, north SegmentRef) {
	y.MustGet(south).North = north
	y.MustGet(north).South = south
}

// Unlink breaks both links of ref. Neighbours keep their links to ref.
func (y *Layout) Unlink(ref SegmentRef) {
	s := y.MustGet(ref)
	s.North = SegmentRef{}
	s.South = SegmentRef{}
}

// Connect makes a layout of segments where each segment's north end connects to the next segment's south end.
// Links already set in segments are overwritten.
func Connect(segments []Segment) (*Layout, []SegmentRef, error) {
	y := New()
	refs := make([]SegmentRef, 0, len(segments))
	for i, s := range segments {
		if s.Geometry == nil {
			return nil, nil, fmt.Errorf("segment %d (%s): no geometry", i, s.Comment)
		}
		s.North = SegmentRef{}
		s.South = SegmentRef{}
		refs = append(refs, y.Add(s))
	}
	for i := 1; i < len(refs); i++ {
		y.Link(refs[i-1], refs[i])
	}
	return y, refs, nil
}

// ChainLength sums the baked lengths of segments from from, following north links.
// It stops at the end of the chain, at a segment with invalid geometry, or when a segment repeats.
func (y *Layout) ChainLength(from SegmentRef) float64 {
	seen := map[SegmentRef]bool{}
	var sum float64
	for ref := from; !seen[ref]; {
		if !y.IsGeometryValid(ref) {
			return sum
		}
		seen[ref] = true
		s := y.MustGet(ref)
		sum += s.Geometry.BakedLength()
		ref = s.North
	}
	return sum
}
