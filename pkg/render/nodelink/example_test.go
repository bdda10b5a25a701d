package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
	"github.com/matzehuels/arcdiff/pkg/diff"
	"github.com/matzehuels/arcdiff/pkg/render/nodelink"
)

func ExampleToDOT() {
	a := depgraph.New("basic")
	b := depgraph.New("plus")
	for _, g := range []*depgraph.Graph{a, b} {
		g.AddWord("dogs")
		g.AddWord("bark")
	}
	a.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(1), Anchor: 0, Reltype: "nsubj"})
	b.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(1), Anchor: 0, Reltype: "nsubj"})

	r, _ := diff.Compare(a, b, diff.NewTextMatcher(a, b))
	dot := nodelink.ToDOT(r, nodelink.Options{})

	// The DOT output can be rendered with nodelink.RenderSVG
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "nsubj") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// a1 -> a0 [label="nsubj", tailport=n, headport=n, constraint=false];
	// b1 -> b0 [label="nsubj", tailport=n, headport=n, constraint=false];
}
