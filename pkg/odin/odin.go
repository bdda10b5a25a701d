package odin

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
)

// Graph names produced by the annotation service.
const (
	GraphBasic    = "universal-basic"
	GraphEnhanced = "universal-enhanced"
)

// RootRelation is the relation type given to root edges.
const RootRelation = "root"

var (
	// ErrNoDocuments is returned when a payload contains no document.
	ErrNoDocuments = errors.New("payload contains no documents")

	// ErrNoSentences is returned when a document contains no sentence.
	ErrNoSentences = errors.New("document contains no sentences")

	// ErrUnknownGraph is returned by [SentenceGraph] when the sentence has
	// no graph with the requested name.
	ErrUnknownGraph = errors.New("unknown graph")
)

// Payload is a decoded Odin payload.
type Payload struct {
	Documents map[string]*Document `json:"documents"`
	Mentions  []json.RawMessage    `json:"mentions"`
}

// Document is one annotated text.
type Document struct {
	ID        string     `json:"id,omitempty"`
	Text      string     `json:"text,omitempty"`
	Sentences []Sentence `json:"sentences"`
}

// Sentence holds the token columns and named graphs of one sentence.
type Sentence struct {
	Words        []string         `json:"words"`
	Raw          []string         `json:"raw,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
	Lemmas       []string         `json:"lemmas,omitempty"`
	Entities     []string         `json:"entities,omitempty"`
	Chunks       []string         `json:"chunks,omitempty"`
	StartOffsets []int            `json:"startOffsets,omitempty"`
	EndOffsets   []int            `json:"endOffsets,omitempty"`
	Graphs       map[string]Graph `json:"graphs,omitempty"`
}

// Graph is one dependency graph over a sentence's words.
type Graph struct {
	Edges []Edge `json:"edges"`
	Roots []int  `json:"roots"`

	// RootRender is parallel to Roots and only written by [Sentence.SetGraph].
	RootRender []Render `json:"rootRender,omitempty"`
}

// Edge is a relation from Source (trigger) to Destination (anchor).
type Edge struct {
	Source      int     `json:"source"`
	Destination int     `json:"destination"`
	Relation    string  `json:"relation"`
	Render      *Render `json:"render,omitempty"`
}

// Render is the display placement of an encoded edge.
type Render struct {
	Top   bool   `json:"top"`
	Slot  int    `json:"slot"`
	Color string `json:"color,omitempty"`
}

// Decode reads a payload from r. Both the full payload form and a bare
// document are accepted; a bare document is stored under the empty ID.
// Decode does not close r.
func Decode(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Parse(data)
}

// Parse decodes a payload from data. See [Decode].
func Parse(data []byte) (*Payload, error) {
	var probe struct {
		Documents json.RawMessage `json:"documents"`
		Sentences json.RawMessage `json:"sentences"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode odin payload")
	}

	if probe.Documents == nil && probe.Sentences != nil {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode odin document")
		}
		return &Payload{Documents: map[string]*Document{"": &doc}}, nil
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode odin payload")
	}
	if len(p.Documents) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrNoDocuments, "decode odin payload")
	}
	return &p, nil
}

// ReadFile decodes the payload stored at path.
func ReadFile(path string) (*Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f)
}

// DocumentIDs returns the document IDs in sorted order.
func (p *Payload) DocumentIDs() []string {
	ids := make([]string, 0, len(p.Documents))
	for id := range p.Documents {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// First returns the document under the empty ID, or the document with the
// smallest ID if there is none.
func (p *Payload) First() (*Document, error) {
	if doc, ok := p.Documents[""]; ok && doc != nil {
		return doc, nil
	}
	for _, id := range p.DocumentIDs() {
		if doc := p.Documents[id]; doc != nil {
			return doc, nil
		}
	}
	return nil, ErrNoDocuments
}

// FirstSentence returns the first sentence of the payload's first document.
func (p *Payload) FirstSentence() (*Sentence, error) {
	doc, err := p.First()
	if err != nil {
		return nil, err
	}
	if len(doc.Sentences) == 0 {
		return nil, ErrNoSentences
	}
	return &doc.Sentences[0], nil
}

// GraphNames returns the names of the sentence's graphs in sorted order.
func (s *Sentence) GraphNames() []string {
	names := make([]string, 0, len(s.Graphs))
	for name := range s.Graphs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SentenceGraph builds the named graph of s.
//
// Tags and lemmas are attached to words when the columns are present and as
// long as the word list. Returns an INVALID_FORMAT error wrapping
// [ErrUnknownGraph] if s has no such graph, and an INVALID_GRAPH error if an
// edge or root points outside the word list.
func SentenceGraph(s *Sentence, name string) (*depgraph.Graph, error) {
	src, ok := s.Graphs[name]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrUnknownGraph,
			"graph %q (available: %v)", name, s.GraphNames())
	}

	g := depgraph.New(name)
	tags := column(s.Tags, len(s.Words))
	lemmas := column(s.Lemmas, len(s.Words))
	for i, w := range s.Words {
		g.AddTaggedWord(w, tags[i], lemmas[i])
	}

	for i, e := range src.Edges {
		edge := depgraph.Edge{
			Trigger: depgraph.TriggerWord(e.Source),
			Anchor:  e.Destination,
			Reltype: e.Relation,
		}
		if _, err := g.AddEdge(edge); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "%s edge %d", name, i)
		}
	}
	for i, root := range src.Roots {
		if _, err := g.AddEdge(depgraph.Edge{Anchor: root, Reltype: RootRelation}); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "%s root %d", name, i)
		}
	}
	return g, nil
}

// PayloadGraph decodes the named graph of the first sentence in data.
func PayloadGraph(data []byte, name string) (*depgraph.Graph, error) {
	p, err := Parse(data)
	if err != nil {
		return nil, err
	}
	s, err := p.FirstSentence()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode odin payload")
	}
	return SentenceGraph(s, name)
}

func column(values []string, n int) []string {
	if len(values) == n {
		return values
	}
	return make([]string, n)
}

// NewSentence returns a sentence with g's words and g as its only graph.
func NewSentence(g *depgraph.Graph) *Sentence {
	s := &Sentence{Graphs: make(map[string]Graph)}
	hasTags, hasLemmas := false, false
	for _, w := range g.Words() {
		s.Words = append(s.Words, w.Text)
		s.Tags = append(s.Tags, w.Tag)
		s.Lemmas = append(s.Lemmas, w.Lemma)
		hasTags = hasTags || w.Tag != ""
		hasLemmas = hasLemmas || w.Lemma != ""
	}
	if !hasTags {
		s.Tags = nil
	}
	if !hasLemmas {
		s.Lemmas = nil
	}
	s.SetGraph(g)
	return s
}

// SetGraph stores g under its name, including each edge's render state.
// Edges without trigger are written as roots.
func (s *Sentence) SetGraph(g *depgraph.Graph) {
	if s.Graphs == nil {
		s.Graphs = make(map[string]Graph)
	}
	out := Graph{Edges: []Edge{}, Roots: []int{}}
	for _, e := range g.Edges() {
		r := Render{Top: e.Render.Top, Slot: e.Render.Slot, Color: e.Render.Color}
		trigger, ok := e.Trigger.Word()
		if !ok {
			out.Roots = append(out.Roots, e.Anchor)
			out.RootRender = append(out.RootRender, r)
			continue
		}
		out.Edges = append(out.Edges, Edge{
			Source:      trigger,
			Destination: e.Anchor,
			Relation:    e.Reltype,
			Render:      &r,
		})
	}
	s.Graphs[g.Name] = out
}

// NewPayload wraps sentences in a single-document payload.
func NewPayload(text string, sentences ...Sentence) *Payload {
	return &Payload{
		Documents: map[string]*Document{"": {Text: text, Sentences: sentences}},
		Mentions:  []json.RawMessage{},
	}
}

// Encode writes p as indented JSON.
func Encode(w io.Writer, p *Payload) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Marshal returns p as indented JSON bytes.
func Marshal(p *Payload) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
