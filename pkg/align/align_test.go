package align

import (
	"math"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
)

func words(texts ...string) []depgraph.Word {
	out := make([]depgraph.Word, len(texts))
	for i, t := range texts {
		out[i] = depgraph.Word{Index: i, Text: t}
	}
	return out
}

func TestAlign(t *testing.T) {
	tests := []struct {
		name       string
		a, b       []depgraph.Word
		want       []float64 // NaN for unmapped
		wantMapped int
	}{
		{
			name:       "Identical",
			a:          words("The", "dog", "runs"),
			b:          words("The", "dog", "runs"),
			want:       []float64{0, 1, 2},
			wantMapped: 3,
		},
		{
			name:       "InsertionInB",
			a:          words("The", "dog", "runs"),
			b:          words("The", "big", "dog", "runs"),
			want:       []float64{0, 1 - Penalty, 1, 2},
			wantMapped: 4,
		},
		{
			name:       "TrailingBUnmapped",
			a:          words("The", "dog"),
			b:          words("The", "dog", "runs"),
			want:       []float64{0, 1, math.NaN()},
			wantMapped: 2,
		},
		{
			name:       "ShorterB",
			a:          words("The", "dog", "runs"),
			b:          words("The", "dog"),
			want:       []float64{0, 1},
			wantMapped: 2,
		},
		{
			name:       "MismatchAtStart",
			a:          words("dog", "runs"),
			b:          words("The", "dog", "runs"),
			want:       []float64{-Penalty, 0, 1},
			wantMapped: 3,
		},
		{
			// A word present in A but missing in B desynchronizes the rest.
			name:       "DeletionInBDesynchronizes",
			a:          words("The", "big", "dog", "runs"),
			b:          words("The", "dog", "runs"),
			want:       []float64{0, 1 - Penalty, 1 - Penalty},
			wantMapped: 3,
		},
		{
			name:       "EmptyA",
			a:          nil,
			b:          words("The"),
			want:       []float64{math.NaN()},
			wantMapped: 0,
		},
		{
			name:       "EmptyB",
			a:          words("The"),
			b:          nil,
			want:       []float64{},
			wantMapped: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Align(tt.a, tt.b)
			if s.Len() != len(tt.b) {
				t.Fatalf("Len = %d, want %d", s.Len(), len(tt.b))
			}
			if s.Mapped() != tt.wantMapped {
				t.Errorf("Mapped = %d, want %d", s.Mapped(), tt.wantMapped)
			}
			for i, want := range tt.want {
				got, ok := s.Lookup(i)
				if math.IsNaN(want) {
					if ok {
						t.Errorf("shift[%d] = %v, want unmapped", i, got)
					}
					continue
				}
				if !ok {
					t.Errorf("shift[%d] unmapped, want %v", i, want)
					continue
				}
				if math.Abs(got-want) > 1e-9 {
					t.Errorf("shift[%d] = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestAlignPenalizedInsertion(t *testing.T) {
	a := words("The", "dog", "runs")
	b := words("The", "big", "dog", "runs")
	s := Align(a, b)

	p, ok := s.Lookup(1)
	if !ok || p == math.Trunc(p) {
		t.Errorf("shift[1] = %v, want non-integral", p)
	}
	if s.Aligned(1) {
		t.Error("shift[1] should not be aligned")
	}
	if !s.Maps(2, 1) {
		t.Errorf("shift[2] should be 1, map = %s", s)
	}
	if !s.Maps(3, 2) {
		t.Errorf("shift[3] should be 2, map = %s", s)
	}
}

func TestLookupOutOfRange(t *testing.T) {
	s := Align(words("a"), words("a"))
	if _, ok := s.Lookup(-1); ok {
		t.Error("Lookup(-1) should be unmapped")
	}
	if _, ok := s.Lookup(1); ok {
		t.Error("Lookup(1) should be unmapped")
	}
	var zero Shift
	if _, ok := zero.Lookup(0); ok {
		t.Error("zero Shift should map nothing")
	}
}

func TestIdentity(t *testing.T) {
	s := Identity(4)
	for i := range 4 {
		if !s.Maps(i, i) {
			t.Errorf("Identity(4) does not map %d to itself", i)
		}
	}
	if s.Mapped() != 4 {
		t.Errorf("Mapped = %d, want 4", s.Mapped())
	}
}

func TestPositionsAndString(t *testing.T) {
	s := Align(words("The", "dog"), words("The", "big", "dog", "runs"))
	pos := s.Positions()
	if len(pos) != 4 {
		t.Fatalf("len(Positions) = %d, want 4", len(pos))
	}
	if !math.IsNaN(pos[3]) {
		t.Errorf("Positions[3] = %v, want NaN", pos[3])
	}
	got := s.String()
	want := "0:0 1:0.1 2:1 3:-"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestAlignProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	tokens := gen.SliceOf(gen.OneConstOf("the", "dog", "runs", "n't", "do", "big", ","))

	properties.Property("alignment is deterministic", prop.ForAll(
		func(a, b []string) bool {
			s1 := Align(words(a...), words(b...))
			s2 := Align(words(a...), words(b...))
			return s1.String() == s2.String()
		},
		tokens, tokens,
	))

	properties.Property("identical sequences align to identity", prop.ForAll(
		func(a []string) bool {
			s := Align(words(a...), words(a...))
			for i := range a {
				if !s.Maps(i, i) {
					return false
				}
			}
			return s.Mapped() == len(a)
		},
		tokens,
	))

	properties.Property("exact positions point at equal surface forms", prop.ForAll(
		func(a, b []string) bool {
			s := Align(words(a...), words(b...))
			for i := range b {
				if !s.Aligned(i) {
					continue
				}
				p, _ := s.Lookup(i)
				if a[int(p)] != b[i] {
					return false
				}
			}
			return true
		},
		tokens, tokens,
	))

	properties.Property("recorded positions never decrease", prop.ForAll(
		func(a, b []string) bool {
			s := Align(words(a...), words(b...))
			pos := s.Positions()[:s.Mapped()]
			return slices.IsSorted(pos)
		},
		tokens, tokens,
	))

	properties.TestingRun(t)
}
