// Package align maps word positions of one tokenization onto another.
//
// Two annotation schemes over the same sentence do not always agree on the
// token sequence: enhanced graphs may add copy nodes, and some pipelines
// split contractions differently. [Align] walks both sequences once and
// records, for every word of B, where it lands in A's index space.
//
// # Algorithm
//
// The walk keeps one pointer into each sequence. Equal surface forms
// advance both pointers and record an exact (integral) position. A mismatch
// advances only B's pointer and records A's pointer minus [Penalty], a
// non-integral position that never equals a real A index. The walk is
// greedy, not edit-distance optimal: a single insertion in A that B lacks
// desynchronizes the rest of the sequence. Once A is exhausted the
// remaining B words stay unmapped.
//
//	// a: The dog runs
//	// b: The big dog runs
//	s := align.Align(a.Words(), b.Words())
//	s.Lookup(1) // 0.1, true (penalized)
//	s.Lookup(2) // 1, true
package align

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
)

// Penalty is subtracted from the recorded position of a B word that does
// not match A's word at the current pointer.
const Penalty = 0.9

// Shift maps B indices to positions in A's index space.
// The zero value maps nothing.
type Shift struct {
	pos    []float64
	mapped int // B indices [0, mapped) have a position
}

// Align computes the shift map from b's index space into a's.
// It is a pure function of the two surface-form sequences.
func Align(a, b []depgraph.Word) Shift {
	s := Shift{pos: make([]float64, len(b))}

	pA, pB := 0, 0
	for pA < len(a) && pB < len(b) {
		if a[pA].Text == b[pB].Text {
			s.pos[pB] = float64(pA)
			pA++
		} else {
			s.pos[pB] = float64(pA) - Penalty
		}
		pB++
	}
	s.mapped = pB
	return s
}

// Identity returns the shift map of two token-identical sequences of length n.
func Identity(n int) Shift {
	s := Shift{pos: make([]float64, n), mapped: n}
	for i := range s.pos {
		s.pos[i] = float64(i)
	}
	return s
}

// Lookup returns the A-space position of B word i and true, or 0 and false
// if i was never reached by the walk (or is out of range).
func (s Shift) Lookup(i int) (float64, bool) {
	if i < 0 || i >= s.mapped {
		return 0, false
	}
	return s.pos[i], true
}

// Aligned reports whether B word i maps exactly onto an A index.
func (s Shift) Aligned(i int) bool {
	p, ok := s.Lookup(i)
	return ok && p >= 0 && p == math.Trunc(p)
}

// Maps reports whether B word i lands exactly on A index j.
func (s Shift) Maps(i, j int) bool {
	p, ok := s.Lookup(i)
	return ok && p == float64(j)
}

// Len returns the length of B's sequence.
func (s Shift) Len() int { return len(s.pos) }

// Mapped returns how many leading B words received a position.
func (s Shift) Mapped() int { return s.mapped }

// Positions returns a copy of the recorded positions. Unmapped entries are NaN.
func (s Shift) Positions() []float64 {
	out := make([]float64, len(s.pos))
	for i := range out {
		if i < s.mapped {
			out[i] = s.pos[i]
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// String renders the map as "0:0 1:0.1 2:1 3:-".
func (s Shift) String() string {
	parts := make([]string, len(s.pos))
	for i := range s.pos {
		if p, ok := s.Lookup(i); ok {
			parts[i] = fmt.Sprintf("%d:%s", i, formatPos(p))
		} else {
			parts[i] = fmt.Sprintf("%d:-", i)
		}
	}
	return strings.Join(parts, " ")
}

func formatPos(p float64) string {
	// Round away float noise from the penalty subtraction.
	return fmt.Sprintf("%g", math.Round(p*1000)/1000)
}
