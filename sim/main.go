// Package sim runs followers along a network at constant speeds, the way a host's update loop would.
package sim

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"nyiyui.ca/hato/rail/config"
	"nyiyui.ca/hato/rail/metrics"
	"nyiyui.ca/hato/rail/tal/follower"
)

type SimulationConf struct {
	Network *config.Network
	// Metrics, if not nil, counts steps.
	Metrics *metrics.Collector
	// Bounce reverses a follower when it is clamped at the end of the line, instead of stopping it.
	Bounce bool
}

type Simulation struct {
	conf   SimulationConf
	movers []mover
	trains []train
	tick   int
	time   float64
}

type mover struct {
	*config.NamedFollower
	speed float64
}

type train struct {
	*config.NamedTrain
	speed float64
}

// Snapshot is the state of all followers after a tick.
type Snapshot struct {
	Tick      int             `json:"tick"`
	Time      float64         `json:"time"`
	Followers []FollowerState `json:"followers"`
	Trains    []TrainState    `json:"trains,omitempty"`
}

type TrainState struct {
	Name  string  `json:"name"`
	Speed float64 `json:"speed"`
	// Stuck is true if the train couldn't move this tick.
	Stuck bool            `json:"stuck"`
	Cars  []FollowerState `json:"cars"`
}

type FollowerState struct {
	Name     string  `json:"name"`
	Segment  string  `json:"segment"`
	Progress float64 `json:"progress"`
	Ratio    float64 `json:"ratio"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Speed    float64 `json:"speed"`
	Outcome  string  `json:"outcome"`
}

func New(conf SimulationConf) *Simulation {
	s := &Simulation{conf: conf}
	for i := range conf.Network.Followers {
		nf := &conf.Network.Followers[i]
		s.movers = append(s.movers, mover{NamedFollower: nf, speed: nf.Speed})
	}
	for i := range conf.Network.Trains {
		nt := &conf.Network.Trains[i]
		s.trains = append(s.trains, train{NamedTrain: nt, speed: nt.Speed})
	}
	return s
}

func (s *Simulation) state(name string, f *follower.Follower, speed float64, step follower.Step) FollowerState {
	var segment string
	if seg, ok := s.conf.Network.Layout.Get(f.Segment()); ok {
		segment = seg.Comment
	}
	pose := f.Pose()
	return FollowerState{
		Name:     name,
		Segment:  segment,
		Progress: f.Progress(),
		Ratio:    f.ProgressRatio(),
		X:        pose.Position.X,
		Y:        pose.Position.Y,
		Rotation: pose.Rotation,
		Speed:    speed,
		Outcome:  step.Outcome.String(),
	}
}

func (s *Simulation) observe(step follower.Step) {
	if s.conf.Metrics != nil {
		s.conf.Metrics.ObserveStep(step)
	}
}

// endOfLine reverses or stops speed.
func (s *Simulation) endOfLine(name string, speed *float64) {
	if s.conf.Bounce {
		*speed = -*speed
		zap.S().Infof("sim: %s: end of line, reversing", name)
	} else if *speed != 0 {
		*speed = 0
		zap.S().Infof("sim: %s: end of line, stopping", name)
	}
}

// Step advances every follower by its speed times dt.
func (s *Simulation) Step(dt float64) Snapshot {
	s.tick++
	s.time += dt
	snap := Snapshot{Tick: s.tick, Time: s.time, Followers: make([]FollowerState, 0, len(s.movers))}
	for i := range s.movers {
		m := &s.movers[i]
		step := m.Advance(m.speed * dt)
		s.observe(step)
		switch step.Outcome {
		case follower.Hopped:
			zap.S().Debugf("sim: %s: hopped %s → %s", m.Name, step.From, step.To)
		case follower.Clamped:
			s.endOfLine(m.Name, &m.speed)
		}
		snap.Followers = append(snap.Followers, s.state(m.Name, m.Follower, m.speed, step))
	}
	for i := range s.trains {
		t := &s.trains[i]
		steps, ok := t.Advance(t.speed * dt)
		if !ok {
			s.endOfLine(t.Name, &t.speed)
		}
		ts := TrainState{Name: t.Name, Speed: t.speed, Stuck: !ok, Cars: make([]FollowerState, len(t.Cars))}
		for j, f := range t.Cars {
			var step follower.Step
			if ok {
				step = steps[j]
				s.observe(step)
			} else {
				step = follower.Step{Outcome: follower.InRange, From: f.Segment(), To: f.Segment()}
			}
			ts.Cars[j] = s.state(t.Form.Cars[j].Comment, f, t.speed, step)
		}
		snap.Trains = append(snap.Trains, ts)
	}
	return snap
}

// Run steps ticks times (forever if ticks is negative), calling emit after every step.
// It stops early if ctx is done or emit returns an error.
func (s *Simulation) Run(ctx context.Context, ticks int, dt float64, emit func(Snapshot) error) error {
	for i := 0; ticks < 0 || i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(s.Step(dt)); err != nil {
			return fmt.Errorf("tick %d: %w", s.tick, err)
		}
	}
	return nil
}
