package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/arcdiff/pkg/diff"
	"github.com/matzehuels/arcdiff/pkg/render/sink"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// classStyles colors each outcome the way the rendered arcs are colored.
var classStyles = map[string]lipgloss.Style{
	diff.Match.String():    lipgloss.NewStyle().Foreground(colorWhite),
	diff.Conflict.String(): lipgloss.NewStyle().Foreground(lipgloss.Color(diff.ColorIndexConflict)),
	diff.UniqueA.String():  lipgloss.NewStyle().Foreground(lipgloss.Color(diff.ColorUniqueA)),
	diff.UniqueB.String():  lipgloss.NewStyle().Foreground(lipgloss.Color(diff.ColorUniqueB)),
}

func classStyle(class string) lipgloss.Style {
	if s, ok := classStyles[class]; ok {
		return s
	}
	return StyleDim
}

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// =============================================================================
// Comparison Display
// =============================================================================

// printStats prints the size of both graphs on a single line.
func printStats(doc *sink.Document, cached bool) {
	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " +
		StyleDim.Render(fmt.Sprintf("%s: %d words, %d edges", doc.A.Name, len(doc.A.Words), len(doc.A.Edges))) + sep +
		StyleDim.Render(fmt.Sprintf("%s: %d words, %d edges", doc.B.Name, len(doc.B.Words), len(doc.B.Edges))) + sep +
		StyleDim.Render(doc.Mode+" mode") + sep +
		statusStyle.Render(status))
}

// summaryTable renders the outcome counts and the agreement ratio.
func summaryTable(doc *sink.Document) string {
	s := doc.Summary
	rows := [][]string{
		{diff.Match.String(), strconv.Itoa(s.Match)},
		{diff.Conflict.String(), strconv.Itoa(s.Conflict)},
		{diff.UniqueA.String(), strconv.Itoa(s.UniqueA)},
		{diff.UniqueB.String(), strconv.Itoa(s.UniqueB)},
		{"moved", strconv.Itoa(s.Moved)},
		{"agreement", fmt.Sprintf("%.1f%%", doc.Agreement*100)},
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Outcome", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return base.Inherit(styleHeader)
			}
			if col == 0 {
				return base.Inherit(classStyle(rows[row][0]))
			}
			return base.Inherit(StyleNumber).Align(lipgloss.Right)
		})
	return t.Render()
}
