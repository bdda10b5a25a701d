package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/arcdiff/pkg/render/sink"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	tabActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Underline(true)
)

// classFilters are the filters cycled by the "f" key; "" shows every edge.
var classFilters = []string{"", "MATCH", "CONFLICT", "UNIQUE_A", "UNIQUE_B"}

// =============================================================================
// EdgeBrowserModel - Interactive comparison browser
// =============================================================================

// EdgeBrowserModel is the bubbletea model for browsing the classified edges
// of a comparison, one graph at a time.
type EdgeBrowserModel struct {
	Doc    *sink.Document
	Side   int // 0 browses graph A, 1 graph B
	Filter int // index into classFilters
	Cursor int
	Offset int
	Height int

	visible []int // indices into the current side's edges
}

func newEdgeBrowser(doc *sink.Document) EdgeBrowserModel {
	m := EdgeBrowserModel{Doc: doc, Height: 15}
	m.refresh()
	return m
}

func (m *EdgeBrowserModel) graph() *sink.Graph {
	if m.Side == 0 {
		return &m.Doc.A
	}
	return &m.Doc.B
}

func (m *EdgeBrowserModel) other() *sink.Graph {
	if m.Side == 0 {
		return &m.Doc.B
	}
	return &m.Doc.A
}

// refresh recomputes the visible edges after a side or filter change.
func (m *EdgeBrowserModel) refresh() {
	want := classFilters[m.Filter]
	m.visible = m.visible[:0]
	for i, e := range m.graph().Edges {
		if want == "" || e.Class == want {
			m.visible = append(m.visible, i)
		}
	}
	m.Cursor, m.Offset = 0, 0
}

func (m EdgeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m EdgeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "left", "right", "h", "l":
			m.Side = 1 - m.Side
			m.refresh()
		case "f":
			m.Filter = (m.Filter + 1) % len(classFilters)
			m.refresh()
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-12, 5)
	}
	return m, nil
}

func (m EdgeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("arcdiff"))
	if m.Doc.Sentence != "" {
		b.WriteString("  " + StyleValue.Render(m.Doc.Sentence))
	}
	b.WriteString("\n")
	b.WriteString(m.tabs())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⇥ switch graph  f filter  ↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	g := m.graph()
	end := min(m.Offset+m.Height, len(m.visible))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		e := g.Edges[m.visible[i]]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(e.ID), arcText(g, e), e.Reltype, e.Class, m.counterpartText(e)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Arc", "Relation", "Outcome", "Counterpart").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= end {
				return lipgloss.NewStyle()
			}
			style := lipgloss.NewStyle()
			if col == 4 {
				style = classStyle(g.Edges[m.visible[idx]].Class)
			}
			if idx == m.Cursor {
				return style.Inherit(listSelectedStyle)
			}
			return style
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	filter := classFilters[m.Filter]
	if filter == "" {
		filter = "all"
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] filter: %s", min(m.Cursor+1, len(m.visible)), len(m.visible), filter)))
	return b.String()
}

func (m EdgeBrowserModel) tabs() string {
	tabs := make([]string, 2)
	for i, g := range [2]*sink.Graph{&m.Doc.A, &m.Doc.B} {
		label := fmt.Sprintf("%s (%d)", g.Name, len(g.Edges))
		if i == m.Side {
			tabs[i] = tabActiveStyle.Render(label)
		} else {
			tabs[i] = listDimStyle.Render(label)
		}
	}
	return strings.Join(tabs, "   ")
}

// counterpartText describes the matched edge of the other graph.
func (m EdgeBrowserModel) counterpartText(e sink.Edge) string {
	if e.Counterpart < 0 {
		return "—"
	}
	o := m.other()
	for _, c := range o.Edges {
		if c.ID == e.Counterpart {
			s := fmt.Sprintf("#%d %s", c.ID, c.Reltype)
			if e.Candidates > 1 {
				s += fmt.Sprintf(" (+%d)", e.Candidates-1)
			}
			return s
		}
	}
	return "#" + strconv.Itoa(e.Counterpart)
}

// arcText renders an edge as "trigger → anchor" using the words of g.
func arcText(g *sink.Graph, e sink.Edge) string {
	trigger := "ROOT"
	if e.Trigger != nil {
		trigger = wordText(g, *e.Trigger)
	}
	return trigger + " " + iconArrow + " " + wordText(g, e.Anchor)
}

func wordText(g *sink.Graph, i int) string {
	if i >= 0 && i < len(g.Words) {
		return g.Words[i].Text
	}
	return "?" + strconv.Itoa(i)
}
