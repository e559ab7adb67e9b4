package kato

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

func TestStraight(t *testing.T) {
	tr := NewTrack(vec.Vec2{X: 1, Y: 1}, math.Pi/2).Straight(S248, S62)
	end, heading := tr.End()
	assert.InDelta(t, 1, end.X, 1e-9)
	assert.InDelta(t, 1+310, end.Y, 1e-9)
	assert.Equal(t, math.Pi/2, heading)
	cmds := tr.Path().Cmds
	assert.Len(t, cmds, 3)
	assert.Equal(t, path.CmdMoveTo, cmds[0])
	assert.Equal(t, path.CmdLineTo, cmds[2])
}

func TestCurve(t *testing.T) {
	for _, deg := range []float64{15, 60, -45, 180} {
		tr := NewTrack(vec.Vec2{}, 0).Curve(R718, deg)
		end, heading := tr.End()
		theta := deg * math.Pi / 180
		// left turns from the origin heading +X end on a circle centred at (0, r)
		sign := math.Copysign(1, deg)
		assert.InDelta(t, R718*math.Sin(math.Abs(theta)), end.X, 1e-6, "degrees %g", deg)
		assert.InDelta(t, sign*R718*(1-math.Cos(theta)), end.Y, 1e-6, "degrees %g", deg)
		assert.InDelta(t, theta, heading, 1e-9, "degrees %g", deg)
	}
	// arcs over 90° are split
	tr := NewTrack(vec.Vec2{}, 0).Curve(R481, 180)
	assert.Len(t, tr.Path().Cmds, 3)
}

func TestArcLength(t *testing.T) {
	assert.InDelta(t, 187.972, ArcLength(R718, 15), 1e-3)
	assert.InDelta(t, 125.926, ArcLength(R481, -15), 1e-3)
}
