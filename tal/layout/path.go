package layout

import (
	"golang.org/x/exp/slices"
)

// Neighbors returns the live segments linked from ref, north first.
func (y *Layout) Neighbors(ref SegmentRef) []SegmentRef {
	s, ok := y.Get(ref)
	if !ok {
		return nil
	}
	ns := make([]SegmentRef, 0, 2)
	for _, n := range []SegmentRef{s.North, s.South} {
		if _, ok := y.Get(n); ok && !slices.Contains(ns, n) {
			ns = append(ns, n)
		}
	}
	return ns
}

// PathTo returns the segments to pass through, in order, to get from from to goal (goal included, from excluded).
// Links are followed in the direction they point, so one-way (asymmetric) links are respected.
// Returns nil if from == goal, or goal is unreachable.
func (y *Layout) PathTo(from, goal SegmentRef) []SegmentRef {
	if from == goal {
		return nil
	}
	if _, ok := y.Get(from); !ok {
		return nil
	}
	if _, ok := y.Get(goal); !ok {
		return nil
	}
	using := map[SegmentRef]SegmentRef{}
	visited := map[SegmentRef]bool{from: true}
	queue := []SegmentRef{from}
	found := false
	for len(queue) > 0 && !found {
		current := queue[0]
		queue = queue[1:]
		for _, n := range y.Neighbors(current) {
			if visited[n] {
				continue
			}
			visited[n] = true
			using[n] = current
			if n == goal {
				found = true
				break
			}
			queue = append(queue, n)
		}
	}
	if !found {
		return nil
	}
	var refs []SegmentRef
	for r := goal; r != from; r = using[r] {
		refs = append(refs, r)
	}
	reverse(refs)
	return refs
}

func reverse[S ~[]E, E any](s S) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
