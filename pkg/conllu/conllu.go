// Package conllu reads CoNLL-U files into basic and enhanced dependency
// graphs.
//
// Each sentence is a block of ten-column token lines separated by a blank
// line. Integer IDs form the basic word sequence and HEAD/DEPREL its edges.
// The enhanced sequence additionally holds the empty (copy) nodes such as
// "8.1" in file order, and its edges come from the DEPS column
// ("4:nsubj|8.1:nsubj:xsubj"). Tokens whose DEPS is "_" fall back to
// HEAD/DEPREL. Multiword ranges ("1-2") are skipped; comment lines are kept
// on the sentence.
//
// Because copy nodes shift every following position, comparing a basic and
// an enhanced graph of the same sentence needs index-mode matching.
package conllu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
)

// Graph names assigned by [Basic] and [Enhanced].
const (
	GraphBasic    = "universal-basic"
	GraphEnhanced = "universal-enhanced"
)

const columns = 10

// Empty is the CoNLL-U placeholder for a missing value.
const Empty = "_"

var (
	// ErrColumnCount is returned for token lines without ten columns.
	ErrColumnCount = errors.New("token line must have 10 columns")

	// ErrBadID is returned for unparsable token IDs.
	ErrBadID = errors.New("invalid token id")

	// ErrUnknownHead is returned when a HEAD or DEPS entry references a token
	// the sentence does not contain.
	ErrUnknownHead = errors.New("head references unknown token")
)

// ID is a token ID. Minor is non-zero for empty nodes ("8.1").
type ID struct {
	Major, Minor int
}

// IsEmptyNode reports whether the ID belongs to an empty (copy) node.
func (id ID) IsEmptyNode() bool { return id.Minor != 0 }

// String formats the ID as it appears in the file.
func (id ID) String() string {
	if id.Minor == 0 {
		return strconv.Itoa(id.Major)
	}
	return fmt.Sprintf("%d.%d", id.Major, id.Minor)
}

// ParseID parses "3" or "8.1".
func ParseID(s string) (ID, error) {
	major, minor, dotted := strings.Cut(s, ".")
	var id ID
	var err error
	if id.Major, err = strconv.Atoi(major); err != nil || id.Major < 0 {
		return ID{}, fmt.Errorf("%w: %q", ErrBadID, s)
	}
	if dotted {
		if id.Minor, err = strconv.Atoi(minor); err != nil || id.Minor <= 0 {
			return ID{}, fmt.Errorf("%w: %q", ErrBadID, s)
		}
	}
	return id, nil
}

// Token is one word line.
type Token struct {
	ID     ID
	Form   string
	Lemma  string
	UPOS   string
	XPOS   string
	Feats  string
	Head   string
	Deprel string
	Deps   string
	Misc   string
}

// Tag returns XPOS, or UPOS when XPOS is empty.
func (t Token) Tag() string {
	if t.XPOS != Empty && t.XPOS != "" {
		return t.XPOS
	}
	if t.UPOS == Empty {
		return ""
	}
	return t.UPOS
}

// Sentence is one block of a CoNLL-U file.
type Sentence struct {
	Comments []string
	Tokens   []Token
}

// Text returns the "# text = ..." comment, or the forms of the basic tokens
// joined by spaces.
func (s *Sentence) Text() string {
	for _, c := range s.Comments {
		if v, ok := strings.CutPrefix(c, "# text = "); ok {
			return v
		}
	}
	var forms []string
	for _, t := range s.Tokens {
		if !t.ID.IsEmptyNode() {
			forms = append(forms, t.Form)
		}
	}
	return strings.Join(forms, " ")
}

// Parse reads all sentences from r.
func Parse(r io.Reader) ([]Sentence, error) {
	var (
		sentences []Sentence
		cur       Sentence
		lineNo    int
	)
	flush := func() {
		if len(cur.Tokens) > 0 || len(cur.Comments) > 0 {
			sentences = append(sentences, cur)
		}
		cur = Sentence{}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case strings.HasPrefix(line, "#"):
			cur.Comments = append(cur.Comments, line)
		default:
			fields := splitColumns(line)
			if len(fields) != columns {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, ErrColumnCount,
					"line %d has %d columns", lineNo, len(fields))
			}
			if strings.Contains(fields[0], "-") {
				continue
			}
			id, err := ParseID(fields[0])
			if err != nil {
				return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "line %d", lineNo)
			}
			cur.Tokens = append(cur.Tokens, Token{
				ID: id, Form: fields[1], Lemma: fields[2], UPOS: fields[3], XPOS: fields[4],
				Feats: fields[5], Head: fields[6], Deprel: fields[7], Deps: fields[8], Misc: fields[9],
			})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	flush()
	return sentences, nil
}

// ParseString is a convenience wrapper around [Parse].
func ParseString(s string) ([]Sentence, error) {
	return Parse(strings.NewReader(s))
}

func splitColumns(line string) []string {
	fields := strings.Split(line, "\t")
	if len(fields) == columns {
		return fields
	}
	if ws := strings.Fields(line); len(ws) == columns {
		return ws
	}
	return fields
}

// Basic builds the basic graph: integer-ID tokens and their HEAD/DEPREL
// edges. HEAD 0 yields an edge without trigger.
func Basic(s *Sentence) (*depgraph.Graph, error) {
	g := depgraph.New(GraphBasic)
	index := make(map[ID]int)
	var tokens []Token
	for _, t := range s.Tokens {
		if t.ID.IsEmptyNode() {
			continue
		}
		index[t.ID] = g.AddTaggedWord(t.Form, t.Tag(), lemma(t))
		tokens = append(tokens, t)
	}

	for _, t := range tokens {
		if err := addHeadEdge(g, index, t); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Enhanced builds the enhanced graph over all tokens, copy nodes included,
// from the DEPS column.
func Enhanced(s *Sentence) (*depgraph.Graph, error) {
	g := depgraph.New(GraphEnhanced)
	index := make(map[ID]int)
	for _, t := range s.Tokens {
		index[t.ID] = g.AddTaggedWord(t.Form, t.Tag(), lemma(t))
	}

	for _, t := range s.Tokens {
		if t.Deps == Empty || t.Deps == "" {
			if err := addHeadEdge(g, index, t); err != nil {
				return nil, err
			}
			continue
		}
		for _, dep := range strings.Split(t.Deps, "|") {
			head, rel, ok := strings.Cut(dep, ":")
			if !ok {
				return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
					"token %s: malformed DEPS entry %q", t.ID, dep)
			}
			if err := addEdge(g, index, t, head, rel); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// Graphs returns the basic and enhanced graphs of s.
func Graphs(s *Sentence) (basic, enhanced *depgraph.Graph, err error) {
	if basic, err = Basic(s); err != nil {
		return nil, nil, err
	}
	if enhanced, err = Enhanced(s); err != nil {
		return nil, nil, err
	}
	return basic, enhanced, nil
}

// SentenceGraph parses data and builds the named graph of its first sentence.
func SentenceGraph(data []byte, name string) (*depgraph.Graph, error) {
	sentences, err := ParseString(string(data))
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "conllu input contains no sentences")
	}
	switch name {
	case GraphBasic, "basic", "":
		return Basic(&sentences[0])
	case GraphEnhanced, "enhanced":
		return Enhanced(&sentences[0])
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidFormat,
			"unknown conllu graph %q (must be %s or %s)", name, GraphBasic, GraphEnhanced)
	}
}

func addHeadEdge(g *depgraph.Graph, index map[ID]int, t Token) error {
	if t.Head == Empty || t.Head == "" {
		return nil
	}
	return addEdge(g, index, t, t.Head, t.Deprel)
}

func addEdge(g *depgraph.Graph, index map[ID]int, t Token, head, rel string) error {
	hid, err := ParseID(head)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "token %s", t.ID)
	}
	e := depgraph.Edge{Anchor: index[t.ID], Reltype: rel}
	if hid != (ID{}) {
		idx, ok := index[hid]
		if !ok {
			return apperrors.Wrap(apperrors.ErrCodeInvalidGraph, ErrUnknownHead, "token %s head %s", t.ID, hid)
		}
		e.Trigger = depgraph.TriggerWord(idx)
	}
	if _, err := g.AddEdge(e); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "token %s", t.ID)
	}
	return nil
}

func lemma(t Token) string {
	if t.Lemma == Empty {
		return ""
	}
	return t.Lemma
}

// Write formats sentences as CoNLL-U, each followed by a blank line.
func Write(w io.Writer, sentences []Sentence) error {
	bw := bufio.NewWriter(w)
	for _, s := range sentences {
		for _, c := range s.Comments {
			fmt.Fprintln(bw, c)
		}
		for _, t := range s.Tokens {
			fmt.Fprintln(bw, strings.Join([]string{
				t.ID.String(), t.Form, t.Lemma, t.UPOS, t.XPOS,
				t.Feats, t.Head, t.Deprel, t.Deps, t.Misc,
			}, "\t"))
		}
		fmt.Fprintln(bw)
	}
	return bw.Flush()
}
