package layout

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// End is an end of a segment or group.
type End int

const (
	EndSouth = End(1)
	EndNorth = End(2)
)

func (e End) String() string {
	switch e {
	case EndSouth:
		return "S"
	case EndNorth:
		return "N"
	default:
		return fmt.Sprint(int(e))
	}
}

// Group is a chain of segments linked north to south like Connect does, with its ends joined to other groups.
type Group struct {
	Prefix   string
	Segments []Segment
	// North joins the north end of the last segment.
	North *GroupJoin
	// South joins the south end of the first segment.
	South *GroupJoin
}

// GroupJoin links the end of a group to the End of the group with Prefix TargetPrefix.
// The link is one-way; the target group must have its own join back to be mutually connected.
type GroupJoin struct {
	TargetPrefix string
	TargetEnd    End
}

// ConnectGroups makes a layout from groups. The returned map has the refs of each group's segments, keyed by prefix.
func ConnectGroups(groups []Group) (*Layout, map[string][]SegmentRef, error) {
	y := New()
	refs := make(map[string][]SegmentRef, len(groups))
	for i, g := range groups {
		if len(g.Segments) == 0 {
			return nil, nil, fmt.Errorf("group %d (%s): no segments", i, g.Prefix)
		}
		if _, ok := refs[g.Prefix]; ok {
			return nil, nil, fmt.Errorf("group %d (%s): duplicate prefix", i, g.Prefix)
		}
		grefs := make([]SegmentRef, len(g.Segments))
		for j, s := range g.Segments {
			if s.Geometry == nil {
				return nil, nil, fmt.Errorf("group %d (%s): segment %d (%s): no geometry", i, g.Prefix, j, s.Comment)
			}
			s.North, s.South = SegmentRef{}, SegmentRef{}
			grefs[j] = y.Add(s)
		}
		for j := 1; j < len(grefs); j++ {
			y.Link(grefs[j-1], grefs[j])
		}
		refs[g.Prefix] = grefs
	}

	target := func(i int, join *GroupJoin) (SegmentRef, error) {
		targetI := slices.IndexFunc(groups, func(g Group) bool { return g.Prefix == join.TargetPrefix })
		if targetI == -1 {
			return SegmentRef{}, fmt.Errorf("joining group %d (%s): target %s not found", i, groups[i].Prefix, join.TargetPrefix)
		}
		trefs := refs[join.TargetPrefix]
		switch join.TargetEnd {
		case EndSouth:
			return trefs[0], nil
		case EndNorth:
			return trefs[len(trefs)-1], nil
		default:
			return SegmentRef{}, fmt.Errorf("joining group %d (%s): invalid target end %s", i, groups[i].Prefix, join.TargetEnd)
		}
	}
	for i, g := range groups {
		grefs := refs[g.Prefix]
		if join := g.North; join != nil {
			to, err := target(i, join)
			if err != nil {
				return nil, nil, err
			}
			y.SetNorth(grefs[len(grefs)-1], to)
		}
		if join := g.South; join != nil {
			to, err := target(i, join)
			if err != nil {
				return nil, nil, err
			}
			y.SetSouth(grefs[0], to)
		}
	}
	return y, refs, nil
}
