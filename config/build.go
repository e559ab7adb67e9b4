package config

import (
	"fmt"

	"github.com/google/uuid"
	"nyiyui.ca/hato/rail"
	"nyiyui.ca/hato/rail/tal/cars"
	"nyiyui.ca/hato/rail/tal/curve"
	"nyiyui.ca/hato/rail/tal/follower"
	"nyiyui.ca/hato/rail/tal/layout"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Network is a built Config.
type Network struct {
	Layout    *layout.Layout
	Segments  map[string]layout.SegmentRef
	Turnouts  map[string]*layout.Turnout
	Followers []NamedFollower
	Trains    []NamedTrain
}

type NamedFollower struct {
	Name  string
	Speed float64
	*follower.Follower
}

func point(p [2]float64) vec.Vec2 {
	return vec.Vec2{X: p[0], Y: p[1]}
}

type NamedTrain struct {
	Name  string
	Speed float64
	*cars.Train
}

func followerConf(rotation *bool, interpolation string, r rail.Reporter) follower.Conf {
	conf := follower.Conf{
		RotationDisable: rotation != nil && !*rotation,
		Reporter:        r,
	}
	if interpolation == "linear" {
		conf.Interpolation = follower.Linear
	}
	return conf
}

// Path returns the outline of s.
func (s Segment) Path() *path.Data {
	p := &path.Data{}
	for i, pt := range s.Points {
		if i == 0 {
			p = p.MoveTo(point(pt))
			continue
		}
		if len(s.Controls) == 0 {
			p = p.LineTo(point(pt))
			continue
		}
		prev, cur := point(s.Points[i-1]), point(pt)
		out := prev.Add(vec.Vec2{X: s.Controls[i-1][2], Y: s.Controls[i-1][3]})
		in := cur.Add(vec.Vec2{X: s.Controls[i][0], Y: s.Controls[i][1]})
		p = p.CubeTo(out, in, cur)
	}
	return p
}

// Build makes a network from c. c must be valid. Warnings from turnouts and followers go to r.
func (c *Config) Build(r rail.Reporter) (*Network, error) {
	n := &Network{
		Layout:   layout.New(),
		Segments: map[string]layout.SegmentRef{},
		Turnouts: map[string]*layout.Turnout{},
	}
	for i, s := range c.Segments {
		var id uuid.UUID
		if s.ID != "" {
			var err error
			id, err = uuid.Parse(s.ID)
			if err != nil {
				return nil, fmt.Errorf("segment %d (%s): parse id as UUID: %w", i, s.Name, err)
			}
		}
		n.Segments[s.Name] = n.Layout.Add(layout.Segment{
			ID:       id,
			Comment:  s.Name,
			Geometry: curve.New(s.Path(), c.BakeInterval),
		})
	}
	// links are set as written, even if they are one-way
	for _, s := range c.Segments {
		ref := n.Segments[s.Name]
		if s.North != "" {
			n.Layout.SetNorth(ref, n.Segments[s.North])
		}
		if s.South != "" {
			n.Layout.SetSouth(ref, n.Segments[s.South])
		}
	}
	for _, t := range c.Turnouts {
		points := make([]layout.SegmentRef, len(t.Points))
		for i, p := range t.Points {
			points[i] = n.Segments[p]
		}
		to := layout.NewTurnout(t.Name, points)
		to.Reporter = r
		if len(points) > 0 {
			if err := to.SetCurrent(t.Current); err != nil {
				return nil, err
			}
		}
		n.Turnouts[t.Name] = to
	}
	for _, f := range c.Followers {
		conf := followerConf(f.Rotation, f.Interpolation, r)
		conf.Segment = n.Segments[f.Segment]
		conf.Progress = f.Progress
		conf.HOffset = f.HOffset
		conf.VOffset = f.VOffset
		n.Followers = append(n.Followers, NamedFollower{
			Name:     f.Name,
			Speed:    f.Speed,
			Follower: follower.New(n.Layout, conf),
		})
	}
	for i, t := range c.Trains {
		form := cars.Form{Comment: t.Name}
		if t.ID != "" {
			var err error
			form.ID, err = uuid.Parse(t.ID)
			if err != nil {
				return nil, fmt.Errorf("train %d (%s): parse id as UUID: %w", i, t.Name, err)
			}
		}
		for _, car := range t.Cars {
			form.Cars = append(form.Cars, cars.Car{Comment: car.Name, Length: car.Length})
		}
		tr, err := cars.Place(n.Layout, form, n.Segments[t.Segment], t.Progress, followerConf(t.Rotation, t.Interpolation, r))
		if err != nil {
			return nil, fmt.Errorf("train %d (%s): %w", i, t.Name, err)
		}
		n.Trains = append(n.Trains, NamedTrain{Name: t.Name, Speed: t.Speed, Train: tr})
	}
	return n, nil
}
