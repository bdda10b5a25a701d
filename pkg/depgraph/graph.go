package depgraph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownAnchor is returned by [Graph.AddEdge] and [Graph.Validate]
	// when an edge's anchor is not a word of the graph.
	ErrUnknownAnchor = errors.New("anchor references unknown word")

	// ErrUnknownTrigger is returned by [Graph.AddEdge] and [Graph.Validate]
	// when an edge's trigger is not a word of the graph.
	ErrUnknownTrigger = errors.New("trigger references unknown word")

	// ErrNonContiguousWords is returned by [Graph.Validate] when word
	// indices are not exactly 0..n-1 in sequence order.
	ErrNonContiguousWords = errors.New("word indices must be contiguous from 0")

	// ErrNilEdge is returned by [Graph.Validate] when the edge list holds a nil entry.
	ErrNilEdge = errors.New("nil edge")
)

// DefaultSlot is the slot magnitude every edge starts with.
const DefaultSlot = 1

// Word is a token of the sentence at a fixed position.
type Word struct {
	Index int    // 0-based position, unique within the sequence
	Text  string // Surface form
	Tag   string // Part-of-speech tag (optional)
	Lemma string // Lemma (optional)
}

// Trigger is either a word index or the absence of a trigger word.
// The zero value means "no trigger".
type Trigger struct {
	index int
	set   bool
}

// NoTrigger returns the trigger of a root-level relation.
func NoTrigger() Trigger { return Trigger{} }

// TriggerWord returns a trigger pointing at the word with the given index.
func TriggerWord(index int) Trigger { return Trigger{index: index, set: true} }

// Word returns the trigger's word index and true, or 0 and false when the
// edge has no trigger.
func (t Trigger) Word() (int, bool) { return t.index, t.set }

// IsNone reports whether the trigger is absent.
func (t Trigger) IsNone() bool { return !t.set }

// String returns the word index or "-" for no trigger.
func (t Trigger) String() string {
	if !t.set {
		return "-"
	}
	return fmt.Sprintf("%d", t.index)
}

// RenderState is the display placement of an edge.
type RenderState struct {
	Top   bool   // true: drawn in the top lane, false: bottom lane
	Slot  int    // signed offset from the lane center
	Color string // hex color, empty for the renderer default
}

// DefaultRenderState is the state of a freshly added edge.
func DefaultRenderState() RenderState {
	return RenderState{Top: true, Slot: DefaultSlot}
}

// Edge is a labeled, directed relation from Trigger to Anchor.
type Edge struct {
	Trigger Trigger
	Anchor  int
	Reltype string
	Render  RenderState

	id int
}

// ID returns the edge's position in its graph's insertion order.
func (e *Edge) ID() int { return e.id }

// Graph is one annotation of a sentence: a word sequence and the edges
// between its words. The zero value is not usable; call [New].
type Graph struct {
	Name  string
	words []Word
	edges []*Edge
}

// New creates an empty graph. The name identifies the annotation scheme
// (e.g. "universal-basic") and is carried through to renderers.
func New(name string) *Graph {
	return &Graph{Name: name}
}

// AddWord appends a word to the sequence and returns its index.
func (g *Graph) AddWord(text string) int {
	return g.AddTaggedWord(text, "", "")
}

// AddTaggedWord appends a word with part-of-speech tag and lemma.
func (g *Graph) AddTaggedWord(text, tag, lemma string) int {
	idx := len(g.words)
	g.words = append(g.words, Word{Index: idx, Text: text, Tag: tag, Lemma: lemma})
	return idx
}

// AddEdge appends an edge in insertion order and returns it.
// Returns ErrUnknownAnchor or ErrUnknownTrigger if the edge references a
// word outside the sequence. The edge's render state is reset to
// [DefaultRenderState] regardless of what the caller passed.
func (g *Graph) AddEdge(e Edge) (*Edge, error) {
	if err := g.checkEdge(&e); err != nil {
		return nil, err
	}
	e.Render = DefaultRenderState()
	e.id = len(g.edges)
	edge := &e
	g.edges = append(g.edges, edge)
	return edge, nil
}

// Words returns a copy of the word sequence.
func (g *Graph) Words() []Word { return slices.Clone(g.words) }

// Word returns the word at index i and true, or the zero Word and false.
func (g *Graph) Word(i int) (Word, bool) {
	if i < 0 || i >= len(g.words) {
		return Word{}, false
	}
	return g.words[i], true
}

// Edges returns the edges in insertion order. The slice is a copy but the
// edges are shared, so render state changes are visible to the graph.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// WordCount returns the number of words.
func (g *Graph) WordCount() int { return len(g.words) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Texts returns the surface forms in sequence order.
func (g *Graph) Texts() []string {
	texts := make([]string, len(g.words))
	for i, w := range g.words {
		texts[i] = w.Text
	}
	return texts
}

// AnchorText returns the surface form of the edge's anchor.
func (g *Graph) AnchorText(e *Edge) string {
	w, _ := g.Word(e.Anchor)
	return w.Text
}

// TriggerText returns the surface form of the edge's trigger and true, or
// "" and false if the edge has no trigger.
func (g *Graph) TriggerText(e *Edge) (string, bool) {
	idx, ok := e.Trigger.Word()
	if !ok {
		return "", false
	}
	w, _ := g.Word(idx)
	return w.Text, true
}

// Describe formats an edge as "trigger -reltype-> anchor" using surface forms.
func (g *Graph) Describe(e *Edge) string {
	trigger, ok := g.TriggerText(e)
	if !ok {
		trigger = "ROOT"
	}
	return fmt.Sprintf("%s -%s-> %s", trigger, e.Reltype, g.AnchorText(e))
}

// Reset restores every edge to [DefaultRenderState].
func (g *Graph) Reset() {
	for _, e := range g.edges {
		e.Render = DefaultRenderState()
	}
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that word indices are contiguous from 0 and that every edge
// references existing words. Use this before comparing graphs whose edges
// were modified after construction.
func (g *Graph) Validate() error {
	for i, w := range g.words {
		if w.Index != i {
			return fmt.Errorf("%w: word %d has index %d", ErrNonContiguousWords, i, w.Index)
		}
	}
	for i, e := range g.edges {
		if e == nil {
			return fmt.Errorf("%w at position %d", ErrNilEdge, i)
		}
		if err := g.checkEdge(e); err != nil {
			return fmt.Errorf("edge %d (%s): %w", i, e.Reltype, err)
		}
	}
	return nil
}

func (g *Graph) checkEdge(e *Edge) error {
	if e.Anchor < 0 || e.Anchor >= len(g.words) {
		return fmt.Errorf("%w: %d (graph has %d words)", ErrUnknownAnchor, e.Anchor, len(g.words))
	}
	if idx, ok := e.Trigger.Word(); ok && (idx < 0 || idx >= len(g.words)) {
		return fmt.Errorf("%w: %d (graph has %d words)", ErrUnknownTrigger, idx, len(g.words))
	}
	return nil
}

// SameTokens reports whether both graphs have token-identical word sequences.
func SameTokens(a, b *Graph) bool {
	return slices.Equal(a.Texts(), b.Texts())
}

// String returns a compact multi-line dump of the graph, one edge per line.
func (g *Graph) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", g.Name, strings.Join(g.Texts(), " "))
	for _, e := range g.edges {
		fmt.Fprintf(&sb, "  %s\n", g.Describe(e))
	}
	return sb.String()
}
