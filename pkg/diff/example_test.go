package diff_test

import (
	"fmt"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
	"github.com/matzehuels/arcdiff/pkg/diff"
)

func ExampleCompare() {
	a := depgraph.New("universal-basic")
	b := depgraph.New("universal-enhanced")
	for _, g := range []*depgraph.Graph{a, b} {
		g.AddWord("The")
		g.AddWord("dog")
		g.AddWord("runs")
	}
	a.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(2), Anchor: 1, Reltype: "nsubj"})
	a.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(1), Anchor: 0, Reltype: "det"})
	b.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(2), Anchor: 1, Reltype: "nsubj:xsubj"})
	b.AddEdge(depgraph.Edge{Anchor: 2, Reltype: "root"})

	m, _ := diff.NewMatcher(diff.ModeAuto, a, b)
	r, err := diff.Compare(a, b, m)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println("mode:", r.Mode)
	for _, e := range b.Edges() {
		fmt.Printf("B %s: %s\n", b.Describe(e), r.OutcomeB(e).Class)
	}
	for _, e := range a.Edges() {
		fmt.Printf("A %s: %s\n", a.Describe(e), r.OutcomeA(e).Class)
	}
	// Output:
	// mode: text
	// B runs -nsubj:xsubj-> dog: CONFLICT
	// B ROOT -root-> runs: UNIQUE_B
	// A runs -nsubj-> dog: CONFLICT
	// A dog -det-> The: UNIQUE_A
}
