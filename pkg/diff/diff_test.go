package diff

import (
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
)

// rel describes an edge by word index; trigger -1 means no trigger.
type rel struct {
	trigger int
	anchor  int
	reltype string
}

func build(t testing.TB, name string, words []string, rels ...rel) *depgraph.Graph {
	t.Helper()
	g := depgraph.New(name)
	for _, w := range words {
		g.AddWord(w)
	}
	for _, r := range rels {
		e := depgraph.Edge{Anchor: r.anchor, Reltype: r.reltype}
		if r.trigger >= 0 {
			e.Trigger = depgraph.TriggerWord(r.trigger)
		}
		if _, err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%+v): %v", r, err)
		}
	}
	return g
}

var dogRuns = []string{"The", "dog", "runs"}

func compare(t *testing.T, a, b *depgraph.Graph, mode Mode) *Result {
	t.Helper()
	m, err := NewMatcher(mode, a, b)
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	r, err := Compare(a, b, m)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	return r
}

func TestScenarioMatch(t *testing.T) {
	for _, mode := range []Mode{ModeIndex, ModeText} {
		t.Run(mode.String(), func(t *testing.T) {
			a := build(t, "basic", dogRuns, rel{2, 1, "nsubj"})
			b := build(t, "plus", dogRuns, rel{2, 1, "nsubj"})
			r := compare(t, a, b, mode)

			if got := r.OutcomesB[0]; got.Class != Match || got.Counterpart != 0 {
				t.Errorf("B outcome = %+v, want MATCH against 0", got)
			}
			if got := r.OutcomesA[0]; got.Class != Match || got.Counterpart != 0 {
				t.Errorf("A outcome = %+v, want MATCH against 0", got)
			}
			for _, e := range append(a.Edges(), b.Edges()...) {
				if e.Render != depgraph.DefaultRenderState() {
					t.Errorf("MATCH edge render = %+v, want default", e.Render)
				}
			}
			if r.Summary.Agreement() != 1 {
				t.Errorf("Agreement = %v, want 1", r.Summary.Agreement())
			}
		})
	}
}

func TestScenarioConflict(t *testing.T) {
	tests := []struct {
		mode  Mode
		color string
	}{
		{ModeIndex, ColorIndexConflict},
		{ModeText, ColorTextConflict},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			a := build(t, "basic", dogRuns, rel{2, 1, "nsubj"})
			b := build(t, "plus", dogRuns, rel{2, 1, "obj"})
			r := compare(t, a, b, tt.mode)

			if r.OutcomesB[0].Class != Conflict || r.OutcomesA[0].Class != Conflict {
				t.Fatalf("outcomes = %+v / %+v, want CONFLICT", r.OutcomesA[0], r.OutcomesB[0])
			}
			if c := a.Edges()[0].Render.Color; c != tt.color {
				t.Errorf("A color = %q, want %q", c, tt.color)
			}
			if c := b.Edges()[0].Render.Color; c != tt.color {
				t.Errorf("B color = %q, want %q", c, tt.color)
			}
			if got := b.Edges()[0].Reltype; got != "obj" {
				t.Errorf("reltype rewritten to %q", got)
			}
		})
	}
}

func TestScenarioUniqueBCollision(t *testing.T) {
	for _, mode := range []Mode{ModeIndex, ModeText} {
		t.Run(mode.String(), func(t *testing.T) {
			a := build(t, "basic", dogRuns, rel{1, 0, "det"})
			b := build(t, "plus", dogRuns,
				rel{1, 0, "det"},
				rel{2, 1, "nsubj"},
				rel{1, 2, "acl"}, // same pair, reversed polarity
			)
			r := compare(t, a, b, mode)

			edges := b.Edges()
			for _, e := range edges[1:] {
				if got := r.OutcomeB(e).Class; got != UniqueB {
					t.Fatalf("edge %d class = %v, want UNIQUE_B", e.ID(), got)
				}
				if e.Render.Color != ColorUniqueB {
					t.Errorf("edge %d color = %q, want %q", e.ID(), e.Render.Color, ColorUniqueB)
				}
				if e.Render.Top {
					t.Errorf("edge %d still in top lane", e.ID())
				}
				if e.Render.Slot == 0 {
					t.Errorf("edge %d slot is zero", e.ID())
				}
			}
			if edges[1].Render.Slot == edges[2].Render.Slot {
				t.Errorf("colliding edges share slot %d", edges[1].Render.Slot)
			}
			if edges[1].Render.Slot != -1 || edges[2].Render.Slot != -2 {
				t.Errorf("slots = %d, %d, want -1, -2", edges[1].Render.Slot, edges[2].Render.Slot)
			}
			if len(r.Moved) != 2 || r.Summary.Moved != 2 {
				t.Errorf("Moved = %d, want 2", len(r.Moved))
			}
			if edges[0].Render != depgraph.DefaultRenderState() {
				t.Errorf("MATCH edge moved: %+v", edges[0].Render)
			}
		})
	}
}

func TestUniqueBWithoutCollisionKeepsLane(t *testing.T) {
	a := build(t, "basic", dogRuns)
	b := build(t, "plus", dogRuns, rel{2, 1, "nsubj"})
	r := compare(t, a, b, ModeIndex)

	e := b.Edges()[0]
	if r.OutcomeB(e).Class != UniqueB {
		t.Fatalf("class = %v, want UNIQUE_B", r.OutcomeB(e).Class)
	}
	if !e.Render.Top || e.Render.Slot != depgraph.DefaultSlot {
		t.Errorf("render = %+v, want default lane", e.Render)
	}
	if len(r.Moved) != 0 {
		t.Errorf("Moved = %d, want 0", len(r.Moved))
	}
}

func TestUniqueBCollidesWithMatchedEdge(t *testing.T) {
	a := build(t, "basic", dogRuns, rel{2, 1, "nsubj"})
	b := build(t, "plus", dogRuns, rel{2, 1, "nsubj"}, rel{1, 2, "xcomp"})
	r := compare(t, a, b, ModeText)

	unique := b.Edges()[1]
	if r.OutcomeB(unique).Class != UniqueB {
		t.Fatalf("class = %v, want UNIQUE_B", r.OutcomeB(unique).Class)
	}
	if unique.Render.Top || unique.Render.Slot != -1 {
		t.Errorf("render = %+v, want bottom lane slot -1", unique.Render)
	}
	if matched := b.Edges()[0]; matched.Render != depgraph.DefaultRenderState() {
		t.Errorf("matched edge moved: %+v", matched.Render)
	}
}

func TestScenarioUniqueA(t *testing.T) {
	a := build(t, "basic", dogRuns, rel{2, 1, "nsubj"}, rel{1, 0, "det"})
	b := build(t, "plus", dogRuns, rel{2, 1, "nsubj"})
	r := compare(t, a, b, ModeIndex)

	e := a.Edges()[1]
	if got := r.OutcomeA(e); got.Class != UniqueA || got.Counterpart != -1 {
		t.Fatalf("outcome = %+v, want UNIQUE_A", got)
	}
	if e.Render.Color != ColorUniqueA {
		t.Errorf("color = %q, want %q", e.Render.Color, ColorUniqueA)
	}
	if !e.Render.Top || e.Render.Slot != depgraph.DefaultSlot {
		t.Errorf("UNIQUE_A edge moved: %+v", e.Render)
	}
	if r.Summary.UniqueA != 1 || r.Summary.Match != 1 {
		t.Errorf("Summary = %+v", r.Summary)
	}
}

func TestIndexModeWithInsertedWord(t *testing.T) {
	// B splits off an extra token at position 1; edges over the shared
	// words still match, edges touching the extra word cannot.
	a := build(t, "basic", []string{"The", "dog", "runs"},
		rel{2, 1, "nsubj"},
		rel{1, 0, "det"},
		rel{-1, 2, "root"},
	)
	b := build(t, "enhanced", []string{"The", "big", "dog", "runs"},
		rel{3, 2, "nsubj"},
		rel{2, 0, "det"},
		rel{2, 1, "amod"},
		rel{-1, 3, "root"},
	)
	r := compare(t, a, b, ModeAuto)

	if r.Mode != ModeIndex {
		t.Fatalf("auto mode resolved to %v, want index", r.Mode)
	}
	want := []Class{Match, Match, UniqueB, Match}
	for i, c := range want {
		if got := r.OutcomesB[i].Class; got != c {
			t.Errorf("B edge %d = %v, want %v", i, got, c)
		}
	}
	for i, o := range r.OutcomesA {
		if o.Class != Match {
			t.Errorf("A edge %d = %v, want MATCH", i, o.Class)
		}
	}
}

func TestIndexModeTrailingUnmappedWords(t *testing.T) {
	a := build(t, "basic", []string{"The", "dog"}, rel{1, 0, "det"})
	b := build(t, "enhanced", []string{"The", "dog", "dog"},
		rel{1, 0, "det"},
		rel{2, 0, "det"},
	)
	r := compare(t, a, b, ModeIndex)

	if r.OutcomesB[0].Class != Match {
		t.Errorf("B edge 0 = %v, want MATCH", r.OutcomesB[0].Class)
	}
	if r.OutcomesB[1].Class != UniqueB {
		t.Errorf("edge to unmapped word = %v, want UNIQUE_B", r.OutcomesB[1].Class)
	}
}

func TestTextModeIgnoresPositions(t *testing.T) {
	a := build(t, "basic", []string{"dog", "runs"}, rel{1, 0, "nsubj"})
	b := build(t, "plus", []string{"the", "dog", "runs"}, rel{2, 1, "nsubj"})
	r := compare(t, a, b, ModeText)

	if r.OutcomesB[0].Class != Match {
		t.Errorf("text mode = %v, want MATCH", r.OutcomesB[0].Class)
	}
}

func TestTriggerPresenceMustAgree(t *testing.T) {
	for _, mode := range []Mode{ModeIndex, ModeText} {
		t.Run(mode.String(), func(t *testing.T) {
			a := build(t, "basic", dogRuns, rel{-1, 2, "root"})
			b := build(t, "plus", dogRuns, rel{1, 2, "root"})
			r := compare(t, a, b, mode)

			if r.OutcomesB[0].Class != UniqueB || r.OutcomesA[0].Class != UniqueA {
				t.Errorf("outcomes = %v / %v, want UNIQUE_B / UNIQUE_A", r.OutcomesB[0].Class, r.OutcomesA[0].Class)
			}
		})
	}
}

func TestFirstMatchPrecedence(t *testing.T) {
	a := build(t, "basic", dogRuns, rel{2, 1, "nsubj"}, rel{2, 1, "nsubj:pass"})
	b := build(t, "plus", dogRuns, rel{2, 1, "nsubj:pass"})
	r := compare(t, a, b, ModeIndex)

	got := r.OutcomesB[0]
	if got.Class != Conflict || got.Counterpart != 0 || got.Candidates != 2 {
		t.Errorf("outcome = %+v, want CONFLICT against first candidate of 2", got)
	}
	// A edge 1 was never chosen but matches; it takes its own first match.
	if got := r.OutcomesA[1]; got.Class != Match || got.Counterpart != 0 {
		t.Errorf("A edge 1 = %+v, want MATCH against 0", got)
	}
}

func TestMatchPairingWinsOverConflict(t *testing.T) {
	a := build(t, "basic", dogRuns, rel{2, 1, "nsubj"})
	b := build(t, "plus", dogRuns, rel{2, 1, "obj"}, rel{2, 1, "nsubj"})
	r := compare(t, a, b, ModeText)

	if got := r.OutcomesA[0]; got.Class != Match || got.Counterpart != 1 {
		t.Errorf("A outcome = %+v, want MATCH against 1", got)
	}
	if c := a.Edges()[0].Render.Color; c != "" {
		t.Errorf("matched A edge colored %q", c)
	}
	if r.OutcomesB[0].Class != Conflict {
		t.Errorf("B edge 0 = %v, want CONFLICT", r.OutcomesB[0].Class)
	}
}

func TestCompareRejectsInvalidGraph(t *testing.T) {
	a := build(t, "basic", dogRuns, rel{2, 1, "nsubj"})
	b := build(t, "plus", dogRuns, rel{2, 1, "nsubj"})
	b.Edges()[0].Anchor = 7

	_, err := Compare(a, b, NewTextMatcher(a, b))
	if !apperrors.Is(err, apperrors.ErrCodeInvalidGraph) {
		t.Fatalf("Compare error = %v, want INVALID_GRAPH", err)
	}
}

func TestCompareIsRepeatable(t *testing.T) {
	a := build(t, "basic", dogRuns, rel{1, 0, "det"})
	b := build(t, "plus", dogRuns, rel{2, 1, "nsubj"}, rel{1, 2, "acl"})

	first := compare(t, a, b, ModeIndex)
	slots := []int{b.Edges()[0].Render.Slot, b.Edges()[1].Render.Slot}
	second := compare(t, a, b, ModeIndex)

	if first.Summary != second.Summary {
		t.Errorf("summaries differ: %+v vs %+v", first.Summary, second.Summary)
	}
	for i, e := range b.Edges() {
		if e.Render.Slot != slots[i] {
			t.Errorf("edge %d slot = %d after rerun, want %d", i, e.Render.Slot, slots[i])
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"INDEX", ModeIndex, false},
		{" text ", ModeText, false},
		{"fuzzy", ModeAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMode(%q) error = %v", tt.in, err)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidMode) {
				t.Errorf("error code = %v, want INVALID_MODE", apperrors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyOf(t *testing.T) {
	a := build(t, "basic", dogRuns)
	b := build(t, "plus", dogRuns, rel{2, 1, "nsubj"}, rel{1, 2, "acl"}, rel{-1, 2, "root"})
	m := NewTextMatcher(a, b)
	edges := b.Edges()

	if KeyOf(m, edges[0]) != KeyOf(m, edges[1]) {
		t.Errorf("reversed edges have different keys: %v vs %v", KeyOf(m, edges[0]), KeyOf(m, edges[1]))
	}
	if got := KeyOf(m, edges[2]); got != (Key{Lo: -1, Hi: 2}) {
		t.Errorf("root key = %v, want (-1,2)", got)
	}
}

func TestClassString(t *testing.T) {
	for c, want := range map[Class]string{
		Match: "MATCH", Conflict: "CONFLICT", UniqueA: "UNIQUE_A", UniqueB: "UNIQUE_B", Unclassified: "UNCLASSIFIED",
	} {
		if c.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(c), c.String(), want)
		}
	}
}

// randomPair builds two graphs over a tiny vocabulary so that matches,
// conflicts and collisions are all frequent.
func randomPair(seed int64) (*depgraph.Graph, *depgraph.Graph) {
	rng := rand.New(rand.NewSource(seed))
	vocab := []string{"the", "dog", "runs", "fast", "and"}
	rels := []string{"nsubj", "obj", "det", "conj"}

	sentence := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = vocab[rng.Intn(len(vocab))]
		}
		return out
	}
	graph := func(name string, words []string) *depgraph.Graph {
		g := depgraph.New(name)
		for _, w := range words {
			g.AddWord(w)
		}
		for range rng.Intn(8) {
			e := depgraph.Edge{Anchor: rng.Intn(len(words)), Reltype: rels[rng.Intn(len(rels))]}
			if rng.Intn(4) > 0 {
				e.Trigger = depgraph.TriggerWord(rng.Intn(len(words)))
			}
			g.AddEdge(e)
		}
		return g
	}

	wa := sentence(1 + rng.Intn(5))
	wb := wa
	if rng.Intn(2) == 0 {
		wb = sentence(1 + rng.Intn(6))
	}
	return graph("a", wa), graph("b", wb)
}

func TestCompareProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	modes := gen.OneConstOf(ModeIndex, ModeText, ModeAuto)

	properties.Property("every edge receives exactly one class", prop.ForAll(
		func(seed int64, mode Mode) bool {
			a, b := randomPair(seed)
			m, _ := NewMatcher(mode, a, b)
			r, err := Compare(a, b, m)
			if err != nil {
				return false
			}
			for _, o := range r.OutcomesA {
				if o.Class != Match && o.Class != Conflict && o.Class != UniqueA {
					return false
				}
			}
			for _, o := range r.OutcomesB {
				if o.Class != Match && o.Class != Conflict && o.Class != UniqueB {
					return false
				}
			}
			return len(r.OutcomesA) == a.EdgeCount() && len(r.OutcomesB) == b.EdgeCount()
		},
		gen.Int64(), modes,
	))

	properties.Property("MATCH is symmetric", prop.ForAll(
		func(seed int64, mode Mode) bool {
			a, b := randomPair(seed)
			m, _ := NewMatcher(mode, a, b)
			r, _ := Compare(a, b, m)
			for _, o := range r.OutcomesB {
				if o.Class == Match && r.OutcomesA[o.Counterpart].Class != Match {
					return false
				}
			}
			return true
		},
		gen.Int64(), modes,
	))

	properties.Property("UNIQUE_B edges sharing a key get distinct slots", prop.ForAll(
		func(seed int64, mode Mode) bool {
			a, b := randomPair(seed)
			m, _ := NewMatcher(mode, a, b)
			r, _ := Compare(a, b, m)
			used := map[Key]map[int]bool{}
			for _, e := range b.Edges() {
				if r.OutcomeB(e).Class != UniqueB || e.Render.Top {
					continue
				}
				k := KeyOf(m, e)
				if used[k] == nil {
					used[k] = map[int]bool{}
				}
				if used[k][e.Render.Slot] || e.Render.Slot == 0 {
					return false
				}
				used[k][e.Render.Slot] = true
			}
			return true
		},
		gen.Int64(), modes,
	))

	properties.Property("classification never rewrites relations", prop.ForAll(
		func(seed int64, mode Mode) bool {
			a, b := randomPair(seed)
			before := a.String() + b.String()
			m, _ := NewMatcher(mode, a, b)
			Compare(a, b, m)
			return before == a.String()+b.String()
		},
		gen.Int64(), modes,
	))

	properties.Property("only UNIQUE_B edges leave the top lane", prop.ForAll(
		func(seed int64, mode Mode) bool {
			a, b := randomPair(seed)
			m, _ := NewMatcher(mode, a, b)
			r, _ := Compare(a, b, m)
			for _, e := range a.Edges() {
				if !e.Render.Top {
					return false
				}
			}
			for _, e := range b.Edges() {
				if !e.Render.Top && r.OutcomeB(e).Class != UniqueB {
					return false
				}
			}
			return true
		},
		gen.Int64(), modes,
	))

	properties.TestingRun(t)
}
