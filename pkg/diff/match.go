package diff

import (
	"strings"

	"github.com/matzehuels/arcdiff/pkg/align"
	"github.com/matzehuels/arcdiff/pkg/depgraph"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
)

// Mode selects the matching strategy for a comparison.
type Mode int

const (
	// ModeAuto picks ModeText for token-identical sequences, ModeIndex otherwise.
	ModeAuto Mode = iota
	// ModeIndex matches edges by aligned word position.
	ModeIndex
	// ModeText matches edges by surface form.
	ModeText
)

// String returns the mode name used in flags, config and API payloads.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeIndex:
		return "index"
	case ModeText:
		return "text"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name. The empty string means ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "index":
		return ModeIndex, nil
	case "text":
		return ModeText, nil
	default:
		return ModeAuto, apperrors.New(apperrors.ErrCodeInvalidMode, "invalid mode: %q (must be one of: auto, index, text)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// LanePolicy decides the slot a colliding UniqueB edge moves to.
type LanePolicy int

const (
	// LaneCounter assigns -1, -2, ... per collision key.
	LaneCounter LanePolicy = iota
	// LaneSignFlip mirrors the edge's current slot for the first edge on a
	// key; later edges on the same key continue below it.
	LaneSignFlip
)

// Style holds the mode-specific presentation of a comparison.
type Style struct {
	ConflictColor string
	Lanes         LanePolicy
}

// Matcher decides whether an edge of B and an edge of A are the same
// relation instance.
type Matcher interface {
	// Match reports whether b (an edge of graph B) corresponds to a (an
	// edge of graph A). Relation types are not compared.
	Match(b, a *depgraph.Edge) bool

	// Position returns the position of B word i in A's index space and
	// whether the word has one.
	Position(i int) (float64, bool)

	// Mode returns the strategy's mode (never ModeAuto).
	Mode() Mode

	// Style returns the strategy's conflict color and lane policy.
	Style() Style
}

// NewMatcher returns the matcher for mode over graphs a and b.
// ModeAuto resolves to ModeText when both word sequences are identical and
// to ModeIndex otherwise.
func NewMatcher(mode Mode, a, b *depgraph.Graph) (Matcher, error) {
	switch mode {
	case ModeAuto:
		if depgraph.SameTokens(a, b) {
			return NewTextMatcher(a, b), nil
		}
		return NewIndexMatcher(a, b), nil
	case ModeIndex:
		return NewIndexMatcher(a, b), nil
	case ModeText:
		return NewTextMatcher(a, b), nil
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidMode, "unknown mode %d", int(mode))
	}
}

// =============================================================================
// Index Mode
// =============================================================================

// IndexMatcher matches edges whose anchors (and triggers, if any) align to
// the same A indices.
type IndexMatcher struct {
	shift align.Shift
}

// NewIndexMatcher aligns b's words onto a's and returns the matcher.
func NewIndexMatcher(a, b *depgraph.Graph) *IndexMatcher {
	return &IndexMatcher{shift: align.Align(a.Words(), b.Words())}
}

// NewIndexMatcherWithShift returns a matcher over a precomputed shift map.
func NewIndexMatcherWithShift(shift align.Shift) *IndexMatcher {
	return &IndexMatcher{shift: shift}
}

// Shift returns the alignment the matcher uses.
func (m *IndexMatcher) Shift() align.Shift { return m.shift }

// Match implements Matcher.
func (m *IndexMatcher) Match(b, a *depgraph.Edge) bool {
	if !m.shift.Maps(b.Anchor, a.Anchor) {
		return false
	}
	bt, bok := b.Trigger.Word()
	at, aok := a.Trigger.Word()
	switch {
	case !bok && !aok:
		return true
	case bok && aok:
		return m.shift.Maps(bt, at)
	default:
		return false
	}
}

// Position implements Matcher.
func (m *IndexMatcher) Position(i int) (float64, bool) { return m.shift.Lookup(i) }

// Mode implements Matcher.
func (m *IndexMatcher) Mode() Mode { return ModeIndex }

// Style implements Matcher.
func (m *IndexMatcher) Style() Style {
	return Style{ConflictColor: ColorIndexConflict, Lanes: LaneCounter}
}

// =============================================================================
// Text Mode
// =============================================================================

// TextMatcher matches edges whose anchors (and triggers, if any) have equal
// surface forms.
type TextMatcher struct {
	a, b *depgraph.Graph
}

// NewTextMatcher returns a text-mode matcher over a and b.
func NewTextMatcher(a, b *depgraph.Graph) *TextMatcher {
	return &TextMatcher{a: a, b: b}
}

// Match implements Matcher.
func (m *TextMatcher) Match(b, a *depgraph.Edge) bool {
	if m.b.AnchorText(b) != m.a.AnchorText(a) {
		return false
	}
	bt, bok := m.b.TriggerText(b)
	at, aok := m.a.TriggerText(a)
	switch {
	case !bok && !aok:
		return true
	case bok && aok:
		return bt == at
	default:
		return false
	}
}

// Position implements Matcher. Both graphs share a tokenization, so a B
// word sits at its own index.
func (m *TextMatcher) Position(i int) (float64, bool) {
	if i < 0 || i >= m.b.WordCount() {
		return 0, false
	}
	return float64(i), true
}

// Mode implements Matcher.
func (m *TextMatcher) Mode() Mode { return ModeText }

// Style implements Matcher.
func (m *TextMatcher) Style() Style {
	return Style{ConflictColor: ColorTextConflict, Lanes: LaneSignFlip}
}

// =============================================================================
// Candidate Search
// =============================================================================

// Candidates returns the IDs of every A edge that m matches against b, in
// A's insertion order.
func Candidates(m Matcher, b *depgraph.Edge, edgesA []*depgraph.Edge) []int {
	var ids []int
	for _, a := range edgesA {
		if m.Match(b, a) {
			ids = append(ids, a.ID())
		}
	}
	return ids
}

// reverseCandidates returns the IDs of every B edge that m matches against a.
func reverseCandidates(m Matcher, a *depgraph.Edge, edgesB []*depgraph.Edge) []int {
	var ids []int
	for _, b := range edgesB {
		if m.Match(b, a) {
			ids = append(ids, b.ID())
		}
	}
	return ids
}
