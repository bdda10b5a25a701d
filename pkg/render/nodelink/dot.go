package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/arcdiff/pkg/depgraph"
	"github.com/matzehuels/arcdiff/pkg/diff"
	"github.com/matzehuels/arcdiff/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds part-of-speech tags to word labels and the class to
	// every highlighted arc label.
	Detailed bool
}

// ToDOT converts a comparison to Graphviz DOT with graph A above graph B.
func ToDOT(r *diff.Result, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	writeCluster(&buf, "a", r.A, func(e *depgraph.Edge) diff.Class { return r.OutcomeA(e).Class }, opts)
	writeCluster(&buf, "b", r.B, func(e *depgraph.Edge) diff.Class { return r.OutcomeB(e).Class }, opts)
	buf.WriteString("}\n")
	return buf.String()
}

// GraphDOT converts a single graph to DOT. Edge colors and lanes are taken
// from the current render state.
func GraphDOT(g *depgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	writeHeader(&buf)
	writeCluster(&buf, "g", g, nil, opts)
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer) {
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  newrank=true;\n")
	buf.WriteString("  node [shape=plaintext, fontsize=20];\n")
	buf.WriteString("  edge [fontsize=12, arrowsize=0.6];\n")
	buf.WriteString("\n")
}

func writeCluster(buf *bytes.Buffer, prefix string, g *depgraph.Graph, class func(*depgraph.Edge) diff.Class, opts Options) {
	fmt.Fprintf(buf, "  subgraph cluster_%s {\n", prefix)
	fmt.Fprintf(buf, "    label=%s;\n", quote(g.Name))
	buf.WriteString("    style=\"rounded\";\n")
	buf.WriteString("    color=lightgrey;\n")

	words := g.Words()
	ids := make([]string, len(words))
	for i, w := range words {
		ids[i] = nodeID(prefix, i)
		fmt.Fprintf(buf, "    %s [label=%s];\n", ids[i], quote(wordLabel(w, opts.Detailed)))
	}
	// An invisible chain keeps the words in sentence order left to right.
	if len(ids) > 1 {
		fmt.Fprintf(buf, "    %s [style=invis, weight=100];\n", strings.Join(ids, " -> "))
	}

	hasRoot := false
	for _, e := range g.Edges() {
		if e.Trigger.IsNone() {
			hasRoot = true
			break
		}
	}
	root := prefix + "_root"
	if hasRoot {
		fmt.Fprintf(buf, "    %s [shape=point, label=\"\", xlabel=\"ROOT\"];\n", root)
	}

	for _, e := range g.Edges() {
		from := root
		if t, ok := e.Trigger.Word(); ok {
			from = nodeID(prefix, t)
		}
		var c diff.Class
		if class != nil {
			c = class(e)
		}
		fmt.Fprintf(buf, "    %s -> %s [%s];\n", from, nodeID(prefix, e.Anchor), strings.Join(edgeAttrs(e, c, opts.Detailed), ", "))
	}
	buf.WriteString("  }\n\n")
}

func nodeID(prefix string, i int) string { return prefix + strconv.Itoa(i) }

func wordLabel(w depgraph.Word, detailed bool) string {
	if !detailed || w.Tag == "" {
		return w.Text
	}
	return w.Text + "\n" + w.Tag
}

func edgeAttrs(e *depgraph.Edge, c diff.Class, detailed bool) []string {
	label := e.Reltype
	if detailed && c != diff.Unclassified && c != diff.Match {
		label += " (" + c.String() + ")"
	}
	if !e.Render.Top {
		// Arcs sharing a word pair are only told apart by their lane.
		label += fmt.Sprintf(" [lane %d]", e.Render.Slot)
	}
	port := "n"
	if !e.Render.Top {
		port = "s"
	}
	attrs := []string{
		"label=" + quote(label),
		"tailport=" + port,
		"headport=" + port,
		"constraint=false",
	}
	if e.Render.Color != "" {
		attrs = append(attrs, "color="+quote(e.Render.Color), "fontcolor="+quote(e.Render.Color), "penwidth=2")
	}
	if !e.Render.Top {
		attrs = append(attrs, "style=dashed", fmt.Sprintf("tooltip=\"lane %d\"", e.Render.Slot))
	}
	return attrs
}

// quote returns s as a DOT double-quoted string. Newlines become the DOT
// line break escape and other control characters are dropped.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case unicode.IsControl(r) || r == '\u2028' || r == '\u2029':
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the image scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
