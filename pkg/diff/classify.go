package diff

import (
	"github.com/matzehuels/arcdiff/pkg/depgraph"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
)

// Highlight colors written to RenderState.Color.
const (
	ColorIndexConflict = "#FFAA00" // amber
	ColorTextConflict  = "#FF7800" // orange
	ColorUniqueB       = "#00FF00" // green
	ColorUniqueA       = "#FF0000" // red
)

// Class is the comparison outcome of a single edge.
type Class int

const (
	// Unclassified is the zero value; no edge keeps it after Compare.
	Unclassified Class = iota
	// Match: the other graph has the same relation with the same type.
	Match
	// Conflict: the other graph has the same relation with a different type.
	Conflict
	// UniqueA: edge of graph A without a counterpart in B.
	UniqueA
	// UniqueB: edge of graph B without a counterpart in A.
	UniqueB
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Match:
		return "MATCH"
	case Conflict:
		return "CONFLICT"
	case UniqueA:
		return "UNIQUE_A"
	case UniqueB:
		return "UNIQUE_B"
	default:
		return "UNCLASSIFIED"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Class) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Outcome is the classification of one edge.
type Outcome struct {
	Class Class `json:"class"`
	// Counterpart is the ID of the matched edge in the other graph, or -1.
	Counterpart int `json:"counterpart"`
	// Candidates is the number of edges in the other graph the matcher
	// accepted. Only the first took part in the relation type comparison.
	Candidates int `json:"candidates"`
}

// Summary counts outcomes. Match and Conflict count edges of graph B.
type Summary struct {
	EdgesA   int `json:"edges_a"`
	EdgesB   int `json:"edges_b"`
	Match    int `json:"match"`
	Conflict int `json:"conflict"`
	UniqueA  int `json:"unique_a"`
	UniqueB  int `json:"unique_b"`
	Moved    int `json:"moved"`
}

// Agreement returns the share of relations both graphs agree on, in [0, 1].
// Two empty graphs agree fully.
func (s Summary) Agreement() float64 {
	total := s.Match + s.Conflict + s.UniqueA + s.UniqueB
	if total == 0 {
		return 1
	}
	return float64(s.Match) / float64(total)
}

// Result is the outcome of a comparison. The graphs' edges carry the
// updated render state; Result only adds the classification.
type Result struct {
	Mode      Mode
	A, B      *depgraph.Graph
	OutcomesA []Outcome // indexed by edge ID of A
	OutcomesB []Outcome // indexed by edge ID of B
	// Moved lists the UniqueB edges the lane resolver moved, in the order
	// they were moved. Renderers re-layout these.
	Moved   []*depgraph.Edge
	Summary Summary
}

// OutcomeA returns the outcome of an A edge.
func (r *Result) OutcomeA(e *depgraph.Edge) Outcome { return r.OutcomesA[e.ID()] }

// OutcomeB returns the outcome of a B edge.
func (r *Result) OutcomeB(e *depgraph.Edge) Outcome { return r.OutcomesB[e.ID()] }

// Compare classifies every edge of a and b with matcher m and updates their
// render state in place. Render state from a previous comparison is reset
// first, so comparing the same graphs twice yields the same result.
//
// Returns an INVALID_GRAPH error if either graph references words it does
// not contain; such graphs come from a broken upstream parser and are never
// classified.
func Compare(a, b *depgraph.Graph, m Matcher) (*Result, error) {
	if err := a.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "graph A (%s)", a.Name)
	}
	if err := b.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "graph B (%s)", b.Name)
	}
	a.Reset()
	b.Reset()

	edgesA, edgesB := a.Edges(), b.Edges()
	style := m.Style()
	r := &Result{
		Mode:      m.Mode(),
		A:         a,
		B:         b,
		OutcomesA: newOutcomes(len(edgesA)),
		OutcomesB: newOutcomes(len(edgesB)),
	}

	// pairing[j] is the best class any B edge reached against A edge j,
	// with Match taking precedence over Conflict.
	pairing := newOutcomes(len(edgesA))
	lanes := newLaneResolver(edgesB, m)

	for _, e := range edgesB {
		ids := Candidates(m, e, edgesA)
		if len(ids) == 0 {
			r.OutcomesB[e.ID()] = Outcome{Class: UniqueB, Counterpart: -1}
			e.Render.Color = ColorUniqueB
			if lanes.place(e) {
				r.Moved = append(r.Moved, e)
			}
			continue
		}

		e2 := edgesA[ids[0]]
		class := Match
		if e2.Reltype != e.Reltype {
			class = Conflict
			e.Render.Color = style.ConflictColor
		}
		r.OutcomesB[e.ID()] = Outcome{Class: class, Counterpart: e2.ID(), Candidates: len(ids)}

		p := &pairing[e2.ID()]
		if p.Class == Unclassified || (p.Class == Conflict && class == Match) {
			p.Class = class
			p.Counterpart = e.ID()
		}
		p.Candidates++
	}

	for _, e2 := range edgesA {
		out := pairing[e2.ID()]
		if out.Class == Unclassified {
			ids := reverseCandidates(m, e2, edgesB)
			if len(ids) == 0 {
				r.OutcomesA[e2.ID()] = Outcome{Class: UniqueA, Counterpart: -1}
				e2.Render.Color = ColorUniqueA
				continue
			}
			// Matched, but every matching B edge chose an earlier A edge.
			e := edgesB[ids[0]]
			out = Outcome{Class: Match, Counterpart: e.ID(), Candidates: len(ids)}
			if e.Reltype != e2.Reltype {
				out.Class = Conflict
			}
		}
		if out.Class == Conflict {
			e2.Render.Color = style.ConflictColor
		}
		r.OutcomesA[e2.ID()] = out
	}

	r.Summary = summarize(r)
	return r, nil
}

func newOutcomes(n int) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i].Counterpart = -1
	}
	return out
}

func summarize(r *Result) Summary {
	s := Summary{
		EdgesA: len(r.OutcomesA),
		EdgesB: len(r.OutcomesB),
		Moved:  len(r.Moved),
	}
	for _, o := range r.OutcomesB {
		switch o.Class {
		case Match:
			s.Match++
		case Conflict:
			s.Conflict++
		case UniqueB:
			s.UniqueB++
		}
	}
	for _, o := range r.OutcomesA {
		if o.Class == UniqueA {
			s.UniqueA++
		}
	}
	return s
}
