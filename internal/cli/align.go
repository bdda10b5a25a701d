package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcdiff/pkg/align"
	"github.com/matzehuels/arcdiff/pkg/depgraph"
)

// alignCommand creates the align command, which shows how the words of one
// token sequence map into another.
func (c *CLI) alignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "align <sentence-a> <sentence-b>",
		Short: "Align the words of two token sequences",
		Long: `Align the words of two whitespace-tokenized sequences and print where every
word of B lands in A's index space. Fractional positions are words B added;
unmapped words are past the end of A.`,
		Example: `  arcdiff align "Sue wants to leave" "Sue wants to leave leave"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, b := tokenize(args[0]), tokenize(args[1])
			shift := align.Align(a, b)
			loggerFromContext(cmd.Context()).Debug("aligned", "a", len(a), "b", len(b), "mapped", shift.Mapped())
			fmt.Fprintln(cmd.OutOrStdout(), alignmentTable(b, shift))
			return nil
		},
	}
}

func tokenize(s string) []depgraph.Word {
	fields := strings.Fields(s)
	words := make([]depgraph.Word, len(fields))
	for i, f := range fields {
		words[i] = depgraph.Word{Index: i, Text: f}
	}
	return words
}

// alignmentTable lists every word of b with its position in a.
func alignmentTable(b []depgraph.Word, shift align.Shift) string {
	rows := make([][]string, len(b))
	for i, w := range b {
		pos := "unmapped"
		if p, ok := shift.Lookup(i); ok {
			pos = strconv.FormatFloat(p, 'g', 4, 64)
		}
		rows[i] = []string{strconv.Itoa(i), w.Text, pos}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("B", "Word", "Position in A").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 2 && rows[row][2] == "unmapped" {
				return StyleWarning
			}
			if col == 2 {
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
