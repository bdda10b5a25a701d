package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/arcdiff/pkg/diff"
)

// The payloads under examples/ are part of the documentation; keep them
// decodable and their comparisons stable.
func TestExamples(t *testing.T) {
	tests := []struct {
		file string
		mode diff.Mode
		want diff.Summary
	}{
		{
			file: "odin/fox.json",
			mode: diff.ModeText,
			want: diff.Summary{EdgesA: 10, EdgesB: 10, Match: 9, Conflict: 1},
		},
		{
			file: "conllu/xsubj.conllu",
			mode: diff.ModeText,
			want: diff.Summary{EdgesA: 4, EdgesB: 5, Match: 4, UniqueB: 1},
		},
		{
			file: "conllu/gapping.conllu",
			mode: diff.ModeIndex,
			want: diff.Summary{EdgesA: 6, EdgesB: 7, Match: 3, UniqueA: 3, UniqueB: 4},
		},
	}

	r := newTestRunner(nil)
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("..", "..", "examples", tt.file))
			if err != nil {
				t.Fatal(err)
			}
			result, err := r.Execute(context.Background(), Options{PayloadA: string(data)})
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if result.Diff.Mode != tt.mode {
				t.Errorf("Mode = %v, want %v", result.Diff.Mode, tt.mode)
			}
			if got := result.Summary(); got != tt.want {
				t.Errorf("Summary = %+v, want %+v", got, tt.want)
			}
		})
	}
}
