package sink

import (
	"encoding/json"
	"math"

	"github.com/matzehuels/arcdiff/pkg/align"
	"github.com/matzehuels/arcdiff/pkg/depgraph"
	"github.com/matzehuels/arcdiff/pkg/diff"
)

// JSONOption configures JSON rendering via [RenderJSON] and [Build].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	id       string
	sentence string
	shift    *align.Shift
}

// WithJSONID records the comparison ID.
func WithJSONID(id string) JSONOption { return func(r *jsonRenderer) { r.id = id } }

// WithJSONSentence records the input sentence.
func WithJSONSentence(s string) JSONOption { return func(r *jsonRenderer) { r.sentence = s } }

// WithJSONShift includes the word alignment of an index-mode comparison.
func WithJSONShift(s align.Shift) JSONOption {
	return func(r *jsonRenderer) { r.shift = &s }
}

// Document is the JSON form of a comparison.
type Document struct {
	ID        string       `json:"id,omitempty"`
	Sentence  string       `json:"sentence,omitempty"`
	Mode      string       `json:"mode"`
	Summary   diff.Summary `json:"summary"`
	Agreement float64      `json:"agreement"`
	A         Graph        `json:"a"`
	B         Graph        `json:"b"`
	Moved     []int        `json:"moved"`
	// Alignment maps B word positions into A's index space; null entries
	// are words the alignment never reached.
	Alignment []*float64 `json:"alignment,omitempty"`
}

// Graph is one side of a comparison.
type Graph struct {
	Name  string `json:"name"`
	Words []Word `json:"words"`
	Edges []Edge `json:"edges"`
}

// Word is a token of the sentence.
type Word struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Tag   string `json:"tag,omitempty"`
	Lemma string `json:"lemma,omitempty"`
}

// Edge is a classified edge with its render state.
type Edge struct {
	ID          int    `json:"id"`
	Trigger     *int   `json:"trigger"`
	Anchor      int    `json:"anchor"`
	Reltype     string `json:"reltype"`
	Class       string `json:"class"`
	Counterpart int    `json:"counterpart"`
	Candidates  int    `json:"candidates,omitempty"`
	Top         bool   `json:"top"`
	Slot        int    `json:"slot"`
	Color       string `json:"color,omitempty"`
}

// Build converts a comparison into its JSON document.
func Build(r *diff.Result, opts ...JSONOption) Document {
	cfg := jsonRenderer{}
	for _, opt := range opts {
		opt(&cfg)
	}

	doc := Document{
		ID:        cfg.id,
		Sentence:  cfg.sentence,
		Mode:      r.Mode.String(),
		Summary:   r.Summary,
		Agreement: r.Summary.Agreement(),
		A:         buildGraph(r.A, r.OutcomesA),
		B:         buildGraph(r.B, r.OutcomesB),
		Moved:     make([]int, 0, len(r.Moved)),
	}
	for _, e := range r.Moved {
		doc.Moved = append(doc.Moved, e.ID())
	}
	if cfg.shift != nil {
		doc.Alignment = Alignment(*cfg.shift)
	}
	return doc
}

// RenderJSON exports the comparison as a pretty-printed JSON document.
// It does not modify r and is safe to call concurrently.
func RenderJSON(r *diff.Result, opts ...JSONOption) ([]byte, error) {
	return json.MarshalIndent(Build(r, opts...), "", "  ")
}

func buildGraph(g *depgraph.Graph, outcomes []diff.Outcome) Graph {
	out := Graph{
		Name:  g.Name,
		Words: make([]Word, 0, g.WordCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, w := range g.Words() {
		out.Words = append(out.Words, Word{Index: w.Index, Text: w.Text, Tag: w.Tag, Lemma: w.Lemma})
	}
	for _, e := range g.Edges() {
		je := Edge{
			ID:          e.ID(),
			Anchor:      e.Anchor,
			Reltype:     e.Reltype,
			Counterpart: -1,
			Top:         e.Render.Top,
			Slot:        e.Render.Slot,
			Color:       e.Render.Color,
		}
		if t, ok := e.Trigger.Word(); ok {
			je.Trigger = &t
		}
		if id := e.ID(); id < len(outcomes) {
			o := outcomes[id]
			je.Class = o.Class.String()
			je.Counterpart = o.Counterpart
			je.Candidates = o.Candidates
		}
		out.Edges = append(out.Edges, je)
	}
	return out
}

// Alignment returns the positions of s with unmapped words as nil.
func Alignment(s align.Shift) []*float64 {
	pos := s.Positions()
	out := make([]*float64, len(pos))
	for i, p := range pos {
		if math.IsNaN(p) {
			continue
		}
		v := p
		out[i] = &v
	}
	return out
}
