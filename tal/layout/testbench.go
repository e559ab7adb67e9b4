package layout

import (
	"fmt"
	"math"

	"nyiyui.ca/hato/rail/tal/curve"
	"nyiyui.ca/hato/rail/tal/layout/preset/kato"
	"seehuhn.de/go/geom/vec"
)

// Testbench is a small layout with turnouts that rewire links when thrown.
type Testbench struct {
	Layout   *Layout
	Refs     map[string]SegmentRef
	Turnouts map[string]*Turnout
	// junctions has where each turnout is, by turnout comment.
	junctions map[string]junction
}

type junction struct {
	at  SegmentRef
	end End
}

func track(comment string, t *kato.Track) Segment {
	return Segment{Comment: comment, Geometry: curve.New(t.Path(), 0)}
}

// InitTestbench6 makes a passing loop: nagase1 splits into mitouc2 (straight) and mitouc3 (diverging), which merge into snb4.
// Both turnouts start on mitouc2.
func InitTestbench6() (*Testbench, error) {
	mainLength := 4 * kato.S248
	// two reverse curves on each side of the loop
	side := mainLength - 4*kato.R718*math.Sin(15*math.Pi/180)
	nagase1 := kato.NewTrack(vec.Vec2{}, 0).Straight(kato.S248, kato.S248, kato.S62)
	start, _ := nagase1.End()
	mitouc2 := kato.NewTrack(start, 0).Straight(mainLength)
	mitouc3 := kato.NewTrack(start, 0).
		Curve(kato.R718, 15).Curve(kato.R718, -15).
		Straight(side).
		Curve(kato.R718, -15).Curve(kato.R718, 15)
	end, _ := mitouc2.End()
	snb4 := kato.NewTrack(end, 0).Straight(kato.S248, kato.S248, kato.S62)

	y, refs, err := ConnectGroups([]Group{
		{
			Prefix:   "nagase1",
			Segments: []Segment{track("nagase1", nagase1)},
			North:    &GroupJoin{TargetPrefix: "mitouc2", TargetEnd: EndSouth},
		},
		{
			Prefix:   "mitouc2",
			Segments: []Segment{track("mitouc2", mitouc2)},
			South:    &GroupJoin{TargetPrefix: "nagase1", TargetEnd: EndNorth},
			North:    &GroupJoin{TargetPrefix: "snb4", TargetEnd: EndSouth},
		},
		{
			Prefix:   "mitouc3",
			Segments: []Segment{track("mitouc3", mitouc3)},
			South:    &GroupJoin{TargetPrefix: "nagase1", TargetEnd: EndNorth},
			North:    &GroupJoin{TargetPrefix: "snb4", TargetEnd: EndSouth},
		},
		{
			Prefix:   "snb4",
			Segments: []Segment{track("snb4", snb4)},
			South:    &GroupJoin{TargetPrefix: "mitouc2", TargetEnd: EndNorth},
		},
	})
	if err != nil {
		return nil, err
	}
	tb := &Testbench{
		Layout:    y,
		Refs:      map[string]SegmentRef{},
		Turnouts:  map[string]*Turnout{},
		junctions: map[string]junction{},
	}
	for prefix, grefs := range refs {
		tb.Refs[prefix] = grefs[0]
	}
	points := []SegmentRef{tb.Refs["mitouc2"], tb.Refs["mitouc3"]}
	tb.Turnouts["nagase1"] = NewTurnout("nagase1", points)
	tb.junctions["nagase1"] = junction{at: tb.Refs["nagase1"], end: EndNorth}
	tb.Turnouts["snb4"] = NewTurnout("snb4", points)
	tb.junctions["snb4"] = junction{at: tb.Refs["snb4"], end: EndSouth}
	return tb, nil
}

// Throw selects point i of the turnout, and links the junction to the selected segment both ways.
// The segment that was selected before keeps its link to the junction.
func (tb *Testbench) Throw(turnout string, i int) error {
	t, ok := tb.Turnouts[turnout]
	if !ok {
		return fmt.Errorf("turnout %s not found", turnout)
	}
	if err := t.SetCurrent(i); err != nil {
		return fmt.Errorf("turnout %s: %w", turnout, err)
	}
	sel, _ := t.Selected()
	j := tb.junctions[turnout]
	switch j.end {
	case EndNorth:
		tb.Layout.Link(j.at, sel)
	case EndSouth:
		tb.Layout.Link(sel, j.at)
	}
	return nil
}
