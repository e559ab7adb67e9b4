package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

const delta = 1e-9

func TestPolylineLength(t *testing.T) {
	c := FromPoints([]vec.Vec2{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 10}}, 1)
	assert.Equal(t, 3, c.PointCount())
	assert.InDelta(t, 11, c.BakedLength(), delta)
	pts := c.BakedPoints()
	require.NotEmpty(t, pts)
	assert.Equal(t, vec.Vec2{X: 0, Y: 0}, pts[0])
	assert.Equal(t, vec.Vec2{X: 3, Y: 10}, pts[len(pts)-1])
	for i := 1; i < len(pts); i++ {
		assert.LessOrEqual(t, pts[i].Sub(pts[i-1]).Length(), 1+delta)
	}
}

func TestSampleLinear(t *testing.T) {
	c := FromPoints([]vec.Vec2{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 3, Y: 10}}, 0)
	type setup struct {
		offset   float64
		expected vec.Vec2
	}
	for _, s := range []setup{
		{0, vec.Vec2{X: 0, Y: 0}},
		{2.5, vec.Vec2{X: 1.5, Y: 2}},
		{5, vec.Vec2{X: 3, Y: 4}},
		{8, vec.Vec2{X: 3, Y: 7}},
		{11, vec.Vec2{X: 3, Y: 10}},
		// clamped
		{-1, vec.Vec2{X: 0, Y: 0}},
		{100, vec.Vec2{X: 3, Y: 10}},
	} {
		got := c.Sample(s.offset, false)
		assert.InDelta(t, s.expected.X, got.X, delta, "offset %g", s.offset)
		assert.InDelta(t, s.expected.Y, got.Y, delta, "offset %g", s.offset)
	}
}

func TestSampleCubicStaysOnLine(t *testing.T) {
	c := FromPoints([]vec.Vec2{{X: 0, Y: 0}, {X: 20, Y: 0}}, 2)
	for offset := 0.0; offset <= 20; offset += 0.7 {
		got := c.Sample(offset, true)
		assert.InDelta(t, 0, got.Y, delta)
		if offset >= 2 && offset <= 18 {
			// evenly spaced collinear points make Catmull-Rom linear, except next to the ends
			assert.InDelta(t, offset, got.X, 1e-6)
		}
	}
}

func TestSampleWithRotation(t *testing.T) {
	c := FromPoints([]vec.Vec2{{X: 0, Y: 0}, {X: 0, Y: 10}, {X: -10, Y: 10}}, 0)
	m := c.SampleWithRotation(5, false)
	assert.InDelta(t, 0, m[0], delta)
	assert.InDelta(t, 1, m[1], delta)
	assert.InDelta(t, -1, m[2], delta)
	assert.InDelta(t, 0, m[3], delta)
	assert.InDelta(t, 0, m[4], delta)
	assert.InDelta(t, 5, m[5], delta)
	assert.InDelta(t, math.Pi/2, math.Atan2(m[1], m[0]), delta)

	m = c.SampleWithRotation(15, false)
	assert.InDelta(t, -1, m[0], delta)
	assert.InDelta(t, 0, m[1], delta)
	assert.InDelta(t, -5, m[4], delta)
	assert.InDelta(t, 10, m[5], delta)
}

func TestCubicBezier(t *testing.T) {
	p := (&path.Data{}).MoveTo(vec.Vec2{X: 0, Y: 0})
	p.Cmds = append(p.Cmds, path.CmdCubeTo)
	p.Coords = append(p.Coords, vec.Vec2{X: 0, Y: 5.5228}, vec.Vec2{X: 4.4772, Y: 10}, vec.Vec2{X: 10, Y: 10})
	c := New(p, 0.01)
	assert.Equal(t, 2, c.PointCount())
	// quarter circle of radius 10
	assert.InDelta(t, 10*math.Pi/2, c.BakedLength(), 0.01)
	mid := c.Sample(c.BakedLength()/2, true)
	assert.InDelta(t, 10, mid.Sub(vec.Vec2{X: 10, Y: 0}).Length(), 0.01)
}

func TestClose(t *testing.T) {
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 10}).
		Close()
	c := New(p, 0)
	assert.InDelta(t, 20+10*math.Sqrt2, c.BakedLength(), delta)
	assert.Equal(t, 3, c.PointCount())
}

func TestDegenerate(t *testing.T) {
	empty := New(nil, 0)
	assert.Equal(t, 0, empty.PointCount())
	assert.Equal(t, 0.0, empty.BakedLength())
	assert.Equal(t, vec.Vec2{}, empty.Sample(3, true))

	one := FromPoints([]vec.Vec2{{X: 2, Y: 3}}, 0)
	assert.Equal(t, 1, one.PointCount())
	assert.Equal(t, vec.Vec2{X: 2, Y: 3}, one.Sample(1, false))
	m := one.SampleWithRotation(1, false)
	assert.Equal(t, 1.0, m[0])
	assert.Equal(t, 2.0, m[4])

	same := FromPoints([]vec.Vec2{{X: 2, Y: 3}, {X: 2, Y: 3}}, 0)
	assert.Equal(t, 2, same.PointCount())
	assert.Equal(t, 0.0, same.BakedLength())
}
