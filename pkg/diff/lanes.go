package diff

import (
	"fmt"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
)

// noTrigger is the position used for an absent trigger in a Key.
const noTrigger = -1

// Key is the unordered pair of aligned positions an edge spans.
// Lo <= Hi always holds, so an edge and its reversed-polarity twin share a key.
type Key struct {
	Lo, Hi float64
}

// String renders the key as "(lo,hi)".
func (k Key) String() string { return fmt.Sprintf("(%g,%g)", k.Lo, k.Hi) }

// KeyOf returns the collision key of B edge e under matcher m.
func KeyOf(m Matcher, e *depgraph.Edge) Key {
	anchor := position(m, e.Anchor)
	trigger := float64(noTrigger)
	if idx, ok := e.Trigger.Word(); ok {
		trigger = position(m, idx)
	}
	return Key{Lo: min(anchor, trigger), Hi: max(anchor, trigger)}
}

// position falls back to the B index for words the alignment never
// reached. Those words trail A's sequence, so the fallback cannot coincide
// with an aligned position.
func position(m Matcher, i int) float64 {
	if p, ok := m.Position(i); ok {
		return p
	}
	return float64(i)
}

// laneResolver assigns bottom-lane slots to UniqueB edges that would
// overlap another B edge. It holds one counter per collision key.
type laneResolver struct {
	edges    []*depgraph.Edge
	keys     []Key
	policy   LanePolicy
	counters map[Key]int
}

func newLaneResolver(edgesB []*depgraph.Edge, m Matcher) *laneResolver {
	keys := make([]Key, len(edgesB))
	for i, e := range edgesB {
		keys[i] = KeyOf(m, e)
	}
	return &laneResolver{
		edges:    edgesB,
		keys:     keys,
		policy:   m.Style().Lanes,
		counters: make(map[Key]int),
	}
}

// place moves e off the top lane if it collides and reports whether it did.
func (r *laneResolver) place(e *depgraph.Edge) bool {
	k := r.keys[e.ID()]

	if c, seen := r.counters[k]; seen {
		c--
		r.counters[k] = c
		r.move(e, c)
		return true
	}

	if !r.collides(e, k) {
		return false
	}

	var slot int
	switch r.policy {
	case LaneSignFlip:
		slot = -e.Render.Slot
	default:
		slot = -1
	}
	r.counters[k] = slot
	r.move(e, slot)
	return true
}

func (r *laneResolver) collides(e *depgraph.Edge, k Key) bool {
	for _, other := range r.edges {
		if other != e && r.keys[other.ID()] == k {
			return true
		}
	}
	return false
}

func (r *laneResolver) move(e *depgraph.Edge, slot int) {
	e.Render.Top = false
	e.Render.Slot = slot
}
