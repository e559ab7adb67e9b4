// Package kato contains preset track pieces for the KATO Unitrack series of model railroad tracks.
// Distances are in millimetres.
package kato

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

const (
	R718 = 718.0
	R481 = 481.0
	// EP481_15S is the straight side of a EP481-15L/R switch track.
	EP481_15S = 126.0
	// S60 is commonly found in EP481 sets.
	S60 = 60.0
	// S62 is commonly found in EP481 sets.
	S62 = 62.0
	// S62F is the common feeeder track (product #20-041)
	S62F = S62
	S64  = 64.0
	S124 = 124.0
	S186 = 186.0
	S248 = 248.0
)

// Track lays pieces end to end into a path.
type Track struct {
	p       *path.Data
	pos     vec.Vec2
	heading float64
}

// NewTrack starts a track at start, heading in the direction heading (radians, counterclockwise from +X).
func NewTrack(start vec.Vec2, heading float64) *Track {
	return &Track{
		p:       (&path.Data{}).MoveTo(start),
		pos:     start,
		heading: heading,
	}
}

func dir(heading float64) vec.Vec2 {
	return vec.Vec2{X: math.Cos(heading), Y: math.Sin(heading)}
}

// left is the unit normal to the left of heading.
func left(heading float64) vec.Vec2 {
	return vec.Vec2{X: -math.Sin(heading), Y: math.Cos(heading)}
}

// Straight adds straight pieces of the given lengths.
func (t *Track) Straight(lengths ...float64) *Track {
	for _, l := range lengths {
		t.pos = t.pos.Add(dir(t.heading).Mul(l))
		t.p = t.p.LineTo(t.pos)
	}
	return t
}

// Curve adds an arc of radius turning by degrees. Positive degrees turn left.
func (t *Track) Curve(radius, degrees float64) *Track {
	// a cubic is close enough to an arc up to 90°
	for degrees != 0 {
		step := math.Max(-90, math.Min(90, degrees))
		t.arc(radius, step*math.Pi/180)
		degrees -= step
	}
	return t
}

func (t *Track) arc(r, theta float64) {
	h0, h1 := t.heading, t.heading+theta
	var end vec.Vec2
	if theta > 0 {
		c := t.pos.Add(left(h0).Mul(r))
		end = c.Sub(left(h1).Mul(r))
	} else {
		c := t.pos.Sub(left(h0).Mul(r))
		end = c.Add(left(h1).Mul(r))
	}
	k := 4.0 / 3 * math.Tan(math.Abs(theta)/4) * r
	p1 := t.pos.Add(dir(h0).Mul(k))
	p2 := end.Sub(dir(h1).Mul(k))
	t.p = t.p.CubeTo(p1, p2, end)
	t.pos = end
	t.heading = h1
}

// End returns where the track ends and its heading there.
func (t *Track) End() (vec.Vec2, float64) {
	return t.pos, t.heading
}

// Path returns the path of the track so far.
func (t *Track) Path() *path.Data {
	return t.p
}

// ArcLength is the length along an arc of radius over degrees.
func ArcLength(radius, degrees float64) float64 {
	return 2 * math.Pi * radius * math.Abs(degrees) / 360
}
