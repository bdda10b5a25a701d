package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
	"github.com/matzehuels/arcdiff/pkg/diff"
)

func sentence(name string) *depgraph.Graph {
	g := depgraph.New(name)
	g.AddTaggedWord("The", "DT", "the")
	g.AddTaggedWord("dog", "NN", "dog")
	g.AddTaggedWord("runs", "VBZ", "run")
	return g
}

func compared(t *testing.T) *diff.Result {
	t.Helper()
	a, b := sentence("basic"), sentence("plus")
	a.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(2), Anchor: 1, Reltype: "nsubj"})
	b.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(2), Anchor: 1, Reltype: "obj"})
	b.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(1), Anchor: 2, Reltype: "acl"})
	b.AddEdge(depgraph.Edge{Anchor: 2, Reltype: "root"})
	r, err := diff.Compare(a, b, diff.NewTextMatcher(a, b))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(compared(t), Options{})

	for _, want := range []string{
		"digraph G",
		"subgraph cluster_a",
		"subgraph cluster_b",
		`label="basic"`,
		`a0 [label="The"]`,
		"b0 -> b1 -> b2 [style=invis",
		"a2 -> a1",
		"b_root -> b2",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if strings.Contains(dot, "a_root") {
		t.Error("ToDOT() emitted a ROOT point for a graph without root edges")
	}
}

func TestToDOT_Colors(t *testing.T) {
	dot := ToDOT(compared(t), Options{})

	if got := strings.Count(dot, `, color="`+diff.ColorTextConflict+`"`); got != 2 {
		t.Errorf("conflict color used %d times, want 2", got)
	}
	// acl collides with obj on the same word pair and is moved below.
	if !strings.Contains(dot, `b1 -> b2 [label="acl [lane -1]", tailport=s, headport=s`) {
		t.Errorf("moved edge not drawn in the bottom lane:\n%s", dot)
	}
	if !strings.Contains(dot, "style=dashed") {
		t.Error("moved edge not dashed")
	}
}

func TestToDOT_LanesLabeled(t *testing.T) {
	a, b := sentence("basic"), sentence("plus")
	b.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(0), Anchor: 2, Reltype: "acl"})
	b.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(2), Anchor: 0, Reltype: "dep"})
	r, err := diff.Compare(a, b, diff.NewTextMatcher(a, b))
	if err != nil {
		t.Fatal(err)
	}

	dot := ToDOT(r, Options{})
	for _, want := range []string{
		`b0 -> b2 [label="acl [lane -1]"`,
		`b2 -> b0 [label="dep [lane -2]"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"nsubj", `"nsubj"`},
		{`say "hi"`, `"say \"hi\""`},
		{`a\b`, `"a\\b"`},
		{"dog\nNN", `"dog\nNN"`},
		{"a\x00b\tc", `"abc"`},
		{"x\u2028y", `"xy"`},
		{"naïve", `"naïve"`},
	}
	for _, tt := range tests {
		if got := quote(tt.in); got != tt.want {
			t.Errorf("quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestToDOT_EscapesWords(t *testing.T) {
	g := depgraph.New("odd")
	g.AddWord(`"quoted"`)
	g.AddWord("ctrl\x01")

	dot := GraphDOT(g, Options{})
	for _, want := range []string{`g0 [label="\"quoted\""]`, `g1 [label="ctrl"]`} {
		if !strings.Contains(dot, want) {
			t.Errorf("GraphDOT() missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(compared(t), Options{Detailed: true})

	if !strings.Contains(dot, `label="The\nDT"`) {
		t.Error("detailed output missing tags")
	}
	if !strings.Contains(dot, "obj (CONFLICT)") {
		t.Error("detailed output missing class")
	}
	if !strings.Contains(dot, "acl (UNIQUE_B)") {
		t.Error("detailed output missing UNIQUE_B class")
	}
}

func TestGraphDOT(t *testing.T) {
	g := sentence("basic")
	g.AddEdge(depgraph.Edge{Trigger: depgraph.TriggerWord(1), Anchor: 0, Reltype: "det"})

	dot := GraphDOT(g, Options{})
	if !strings.Contains(dot, `g1 -> g0 [label="det", tailport=n, headport=n`) {
		t.Errorf("GraphDOT() missing edge:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}
