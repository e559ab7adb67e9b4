// Package curve bakes path outlines into arc-length samples, so that positions can be looked up by distance along the path.
package curve

import (
	"math"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// DefaultBakeInterval is the distance between baked points used when none is given.
const DefaultBakeInterval = 5.0

// zeroLengthThreshold is the length below which an edge is skipped when baking.
const zeroLengthThreshold = 1e-9

// Curve is a baked path. It is immutable once made.
type Curve struct {
	pointCount int
	interval   float64
	baked      []vec.Vec2
	// dists[i] is the arc length from the start to baked[i].
	dists []float64
}

// New bakes p with baked points at most interval apart.
// Only the first subpath is used; a later MoveTo continues the rail with a straight edge (rails don't jump).
// If interval is not positive, DefaultBakeInterval is used.
func New(p *path.Data, interval float64) *Curve {
	if interval <= 0 || math.IsNaN(interval) || math.IsInf(interval, 0) {
		interval = DefaultBakeInterval
	}
	c := &Curve{interval: interval}
	if p == nil {
		return c
	}
	var current, subpath vec.Vec2
	started := false
	coordIdx := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			to := p.Coords[coordIdx]
			coordIdx++
			c.pointCount++
			if !started {
				started = true
				current, subpath = to, to
				c.appendBaked(to)
				continue
			}
			c.bakeLine(current, to)
			current = to

		case path.CmdLineTo:
			to := p.Coords[coordIdx]
			coordIdx++
			c.pointCount++
			c.bakeLine(current, to)
			current = to

		case path.CmdQuadTo:
			c1, to := p.Coords[coordIdx], p.Coords[coordIdx+1]
			coordIdx += 2
			c.pointCount++
			c.bakeQuadratic(current, c1, to)
			current = to

		case path.CmdCubeTo:
			c1, c2, to := p.Coords[coordIdx], p.Coords[coordIdx+1], p.Coords[coordIdx+2]
			coordIdx += 3
			c.pointCount++
			c.bakeCubic(current, c1, c2, to)
			current = to

		case path.CmdClose:
			if current != subpath {
				c.bakeLine(current, subpath)
			}
			current = subpath
		}
	}
	return c
}

// FromPoints bakes a polyline through points.
func FromPoints(points []vec.Vec2, interval float64) *Curve {
	p := &path.Data{}
	for i, pt := range points {
		if i == 0 {
			p = p.MoveTo(pt)
		} else {
			p = p.LineTo(pt)
		}
	}
	return New(p, interval)
}

// Straight bakes a straight line of length along the x axis, starting at the origin.
func Straight(length float64) *Curve {
	return FromPoints([]vec.Vec2{{X: 0, Y: 0}, {X: length, Y: 0}}, 0)
}

func (c *Curve) appendBaked(p vec.Vec2) {
	if len(c.baked) == 0 {
		c.baked = append(c.baked, p)
		c.dists = append(c.dists, 0)
		return
	}
	last := c.baked[len(c.baked)-1]
	d := p.Sub(last).Length()
	if d < zeroLengthThreshold {
		return
	}
	c.baked = append(c.baked, p)
	c.dists = append(c.dists, c.dists[len(c.dists)-1]+d)
}

func (c *Curve) steps(approxLength float64) int {
	n := int(math.Ceil(approxLength / c.interval))
	if n < 1 {
		n = 1
	}
	return n
}

func (c *Curve) bakeLine(from, to vec.Vec2) {
	n := c.steps(to.Sub(from).Length())
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		c.appendBaked(from.Add(to.Sub(from).Mul(t)))
	}
}

func (c *Curve) bakeQuadratic(p0, p1, p2 vec.Vec2) {
	// control polygon length bounds the arc length
	n := c.steps(p1.Sub(p0).Length() + p2.Sub(p1).Length())
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		c.appendBaked(p0.Mul(mt * mt).Add(p1.Mul(2 * mt * t)).Add(p2.Mul(t * t)))
	}
}

func (c *Curve) bakeCubic(p0, p1, p2, p3 vec.Vec2) {
	n := c.steps(p1.Sub(p0).Length() + p2.Sub(p1).Length() + p3.Sub(p2).Length())
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		c.appendBaked(p0.Mul(mt * mt * mt).
			Add(p1.Mul(3 * mt * mt * t)).
			Add(p2.Mul(3 * mt * t * t)).
			Add(p3.Mul(t * t * t)))
	}
}

// PointCount returns the number of points the path was defined with.
func (c *Curve) PointCount() int {
	return c.pointCount
}

func (c *Curve) BakedLength() float64 {
	if len(c.dists) == 0 {
		return 0
	}
	return c.dists[len(c.dists)-1]
}

// BakedPoints returns a copy of the baked points.
func (c *Curve) BakedPoints() []vec.Vec2 {
	return slices.Clone(c.baked)
}

// locate returns i and t so that offset is t of the way from baked[i] to baked[i+1].
// offset is clamped to the curve.
func (c *Curve) locate(offset float64) (i int, t float64) {
	if len(c.baked) < 2 || offset <= 0 || math.IsNaN(offset) {
		return 0, 0
	}
	length := c.BakedLength()
	if offset >= length {
		return len(c.baked) - 2, 1
	}
	j, found := slices.BinarySearch(c.dists, offset)
	if found {
		if j == len(c.baked)-1 {
			return j - 1, 1
		}
		return j, 0
	}
	i = j - 1
	t = (offset - c.dists[i]) / (c.dists[i+1] - c.dists[i])
	return i, t
}

func (c *Curve) at(i int) vec.Vec2 {
	if i < 0 {
		i = 0
	}
	if i >= len(c.baked) {
		i = len(c.baked) - 1
	}
	return c.baked[i]
}

// Sample returns the position at offset along the curve. offset is clamped to [0, BakedLength].
// cubic uses Catmull-Rom interpolation between baked points instead of linear.
func (c *Curve) Sample(offset float64, cubic bool) vec.Vec2 {
	switch len(c.baked) {
	case 0:
		return vec.Vec2{}
	case 1:
		return c.baked[0]
	}
	i, t := c.locate(offset)
	p1, p2 := c.baked[i], c.baked[i+1]
	if !cubic {
		return p1.Add(p2.Sub(p1).Mul(t))
	}
	return catmullRom(c.at(i-1), p1, p2, c.at(i+2), t)
}

func catmullRom(p0, p1, p2, p3 vec.Vec2, t float64) vec.Vec2 {
	t2 := t * t
	t3 := t2 * t
	return p1.Mul(2).
		Add(p2.Sub(p0).Mul(t)).
		Add(p0.Mul(2).Sub(p1.Mul(5)).Add(p2.Mul(4)).Sub(p3).Mul(t2)).
		Add(p1.Mul(3).Sub(p0).Sub(p2.Mul(3)).Add(p3).Mul(t3)).
		Mul(0.5)
}

// SampleWithRotation returns the frame at offset: the forward axis follows the curve, and the side axis is 90° counterclockwise from it.
func (c *Curve) SampleWithRotation(offset float64, cubic bool) matrix.Matrix {
	pos := c.Sample(offset, cubic)
	fwd := vec.Vec2{X: 1, Y: 0}
	if len(c.baked) >= 2 {
		i, _ := c.locate(offset)
		d := c.baked[i+1].Sub(c.baked[i])
		if l := d.Length(); l >= zeroLengthThreshold {
			fwd = d.Mul(1 / l)
		}
	}
	return matrix.Matrix{fwd.X, fwd.Y, -fwd.Y, fwd.X, pos.X, pos.Y}
}
