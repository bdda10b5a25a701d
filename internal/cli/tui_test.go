package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/arcdiff/pkg/render/sink"
)

func browserDoc() *sink.Document {
	one, two := 1, 2
	words := []sink.Word{{Index: 0, Text: "The"}, {Index: 1, Text: "dog"}, {Index: 2, Text: "runs"}}
	return &sink.Document{
		Sentence: "The dog runs",
		Mode:     "text",
		A: sink.Graph{Name: "universal-basic", Words: words, Edges: []sink.Edge{
			{ID: 0, Trigger: &one, Anchor: 0, Reltype: "det", Class: "UNIQUE_A", Counterpart: -1},
			{ID: 1, Trigger: &two, Anchor: 1, Reltype: "nsubj", Class: "MATCH", Counterpart: 0},
			{ID: 2, Anchor: 2, Reltype: "root", Class: "MATCH", Counterpart: 1},
		}},
		B: sink.Graph{Name: "universal-enhanced", Words: words, Edges: []sink.Edge{
			{ID: 0, Trigger: &two, Anchor: 1, Reltype: "nsubj", Class: "MATCH", Counterpart: 1},
			{ID: 1, Anchor: 2, Reltype: "root", Class: "MATCH", Counterpart: 2},
		}},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m EdgeBrowserModel, keys ...string) EdgeBrowserModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(EdgeBrowserModel)
	}
	return m
}

func TestEdgeBrowserNavigation(t *testing.T) {
	m := newEdgeBrowser(browserDoc())
	if len(m.visible) != 3 {
		t.Fatalf("visible = %v, want all A edges", m.visible)
	}

	m = press(m, "down", "down", "down")
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", m.Cursor)
	}

	m = press(m, "tab")
	if m.Side != 1 || m.Cursor != 0 || len(m.visible) != 2 {
		t.Errorf("after tab: side %d cursor %d visible %v", m.Side, m.Cursor, m.visible)
	}
}

func TestEdgeBrowserFilter(t *testing.T) {
	m := press(newEdgeBrowser(browserDoc()), "f")
	if classFilters[m.Filter] != "MATCH" || len(m.visible) != 2 {
		t.Errorf("MATCH filter shows %v", m.visible)
	}
	m = press(m, "f", "f")
	if classFilters[m.Filter] != "UNIQUE_A" || len(m.visible) != 1 {
		t.Errorf("UNIQUE_A filter shows %v", m.visible)
	}
	m = press(m, "f")
	if len(m.visible) != 0 {
		t.Errorf("UNIQUE_B filter shows %v", m.visible)
	}
	if !strings.Contains(m.View(), "[0/0]") {
		t.Error("empty filter should show [0/0]")
	}
}

func TestEdgeBrowserView(t *testing.T) {
	view := newEdgeBrowser(browserDoc()).View()
	for _, want := range []string{"The dog runs", "dog → The", "ROOT → runs", "UNIQUE_A", "#0 nsubj", "universal-enhanced (2)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestEdgeBrowserQuit(t *testing.T) {
	_, cmd := newEdgeBrowser(browserDoc()).Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
