// Package cars places formations of cars on a layout, with a follower for each car.
package cars

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"nyiyui.ca/hato/rail/tal/follower"
	"nyiyui.ca/hato/rail/tal/layout"
)

var ErrNoFit = errors.New("formation doesn't fit")

// Form represents a single formation.
type Form struct {
	ID      uuid.UUID
	Comment string
	// Cars is the list of cars in this formation, from the north end to the south end.
	Cars []Car
}

type Car struct {
	Comment string
	// Length of the car, coupler to coupler.
	Length float64
}

// Length returns the length of the whole formation.
func (f Form) Length() float64 {
	var sum float64
	for _, c := range f.Cars {
		sum += c.Length
	}
	return sum
}

// Train is a Form placed on a layout.
type Train struct {
	Form Form
	// Cars has a follower at the centre of each car, in the same order as Form.Cars.
	Cars []*follower.Follower
}

// walk moves f by amount, hopping as many times as needed (up to maxHops).
func walk(f *follower.Follower, amount float64, maxHops int) error {
	step := f.Advance(amount)
	for hops := 1; step.Outcome == follower.Hopped; hops++ {
		if hops > maxHops {
			return fmt.Errorf("more than %d hops: %w", maxHops, ErrNoFit)
		}
		step = f.SetProgress(f.Progress())
	}
	if step.Outcome == follower.Clamped {
		return fmt.Errorf("ran out of rail at %s: %w", step.To, ErrNoFit)
	}
	return nil
}

// Place puts form on y with its north end at progress along head.
// conf is used for every car, except for Segment and Progress.
func Place(y *layout.Layout, form Form, head layout.SegmentRef, progress float64, conf follower.Conf) (*Train, error) {
	if len(form.Cars) == 0 {
		return nil, fmt.Errorf("form %s: no cars", form.Comment)
	}
	if form.ID == uuid.Nil {
		form.ID = uuid.New()
	}
	t := &Train{Form: form}
	conf.Segment = head
	conf.Progress = progress
	var back float64
	for i, c := range form.Cars {
		if c.Length <= 0 {
			return nil, fmt.Errorf("form %s: car %d (%s): length must be positive", form.Comment, i, c.Comment)
		}
		f := follower.New(y, conf)
		if err := walk(f, -(back + c.Length/2), y.Len()); err != nil {
			return nil, fmt.Errorf("form %s: car %d (%s): %w", form.Comment, i, c.Comment, err)
		}
		t.Cars = append(t.Cars, f)
		back += c.Length
	}
	return t, nil
}

// CanAdvance reports whether every car can move by amount.
func (t *Train) CanAdvance(amount float64) bool {
	for _, f := range t.Cars {
		if !f.CanAdvance(amount) {
			return false
		}
	}
	return true
}

// Advance moves every car by amount. If any car can't move, no car moves and false is returned.
func (t *Train) Advance(amount float64) ([]follower.Step, bool) {
	if !t.CanAdvance(amount) {
		return nil, false
	}
	steps := make([]follower.Step, len(t.Cars))
	for i, f := range t.Cars {
		steps[i] = f.Advance(amount)
	}
	return steps, true
}
