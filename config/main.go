// Package config describes a rail network (segments, turnouts, and followers) in YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// BakeInterval is the distance between baked points. 0 uses the default.
	BakeInterval float64    `yaml:"bake-interval" validate:"gte=0"`
	Segments     []Segment  `yaml:"segments" validate:"required,min=1,dive"`
	Turnouts     []Turnout  `yaml:"turnouts" validate:"dive"`
	Followers    []Follower `yaml:"followers" validate:"dive"`
	Trains       []Train    `yaml:"trains" validate:"dive"`
}

type Segment struct {
	Name string `yaml:"name" validate:"required"`
	// ID is a UUID. A random one is used if empty.
	ID string `yaml:"id" validate:"omitempty,uuid"`
	// Points of the path, from the south end to the north end.
	// Less than 2 points is allowed, but the segment can't be followed.
	Points [][2]float64 `yaml:"points"`
	// Controls are optional Bézier handles for each point: in x, in y, out x, out y, relative to the point.
	// If set, there must be one per point.
	Controls [][4]float64 `yaml:"controls"`
	// North is the name of the segment past the north end.
	North string `yaml:"north"`
	// South is the name of the segment past the south end.
	South string `yaml:"south"`
}

type Turnout struct {
	Name    string   `yaml:"name" validate:"required"`
	Points  []string `yaml:"points"`
	Current int      `yaml:"current" validate:"gte=0"`
}

type Follower struct {
	Name     string  `yaml:"name" validate:"required"`
	Segment  string  `yaml:"segment" validate:"required"`
	Progress float64 `yaml:"progress"`
	// Speed in distance per second, used by the simulator.
	Speed   float64 `yaml:"speed"`
	HOffset float64 `yaml:"h-offset"`
	VOffset float64 `yaml:"v-offset"`
	// Rotation defaults to true.
	Rotation      *bool  `yaml:"rotation"`
	Interpolation string `yaml:"interpolation" validate:"omitempty,oneof=linear cubic"`
}

// Train is a formation of cars, each with its own follower.
type Train struct {
	Name string `yaml:"name" validate:"required"`
	// ID is a UUID. A random one is used if empty.
	ID string `yaml:"id" validate:"omitempty,uuid"`
	// Segment and Progress are where the north end of the first car is.
	Segment  string  `yaml:"segment" validate:"required"`
	Progress float64 `yaml:"progress"`
	Speed    float64 `yaml:"speed"`
	Cars     []Car   `yaml:"cars" validate:"required,min=1,dive"`
	// Rotation defaults to true.
	Rotation      *bool  `yaml:"rotation"`
	Interpolation string `yaml:"interpolation" validate:"omitempty,oneof=linear cubic"`
}

type Car struct {
	Name   string  `yaml:"name"`
	Length float64 `yaml:"length" validate:"gt=0"`
}

var validate = validator.New()

// Load decodes and validates a config.
func Load(r io.Reader) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	c, err := Load(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Validate checks struct constraints and that all names referenced exist.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	var errs []error
	segments := map[string]bool{}
	for i, s := range c.Segments {
		if segments[s.Name] {
			errs = append(errs, fmt.Errorf("segment %d: duplicate name %s", i, s.Name))
		}
		segments[s.Name] = true
		if len(s.Controls) != 0 && len(s.Controls) != len(s.Points) {
			errs = append(errs, fmt.Errorf("segment %d (%s): %d controls for %d points", i, s.Name, len(s.Controls), len(s.Points)))
		}
	}
	ref := func(kind string, i int, name, field, target string) {
		if target != "" && !segments[target] {
			errs = append(errs, fmt.Errorf("%s %d (%s): %s: segment %s not found", kind, i, name, field, target))
		}
	}
	for i, s := range c.Segments {
		ref("segment", i, s.Name, "north", s.North)
		ref("segment", i, s.Name, "south", s.South)
	}
	turnouts := map[string]bool{}
	for i, t := range c.Turnouts {
		if turnouts[t.Name] {
			errs = append(errs, fmt.Errorf("turnout %d: duplicate name %s", i, t.Name))
		}
		turnouts[t.Name] = true
		for j, p := range t.Points {
			ref("turnout", i, t.Name, fmt.Sprintf("point %d", j), p)
		}
		if len(t.Points) > 0 && t.Current >= len(t.Points) {
			errs = append(errs, fmt.Errorf("turnout %d (%s): current %d out of %d points", i, t.Name, t.Current, len(t.Points)))
		}
	}
	followers := map[string]bool{}
	for i, f := range c.Followers {
		if followers[f.Name] {
			errs = append(errs, fmt.Errorf("follower %d: duplicate name %s", i, f.Name))
		}
		followers[f.Name] = true
		ref("follower", i, f.Name, "segment", f.Segment)
	}
	for i, t := range c.Trains {
		if followers[t.Name] {
			errs = append(errs, fmt.Errorf("train %d: duplicate name %s", i, t.Name))
		}
		followers[t.Name] = true
		ref("train", i, t.Name, "segment", t.Segment)
	}
	return errors.Join(errs...)
}
