// Package nodelink draws classified comparisons with Graphviz.
//
// Each graph becomes a cluster: its words form a single rank in sentence
// order and every edge is an arc from trigger to anchor labeled with the
// relation type. Arcs in the top lane leave and enter words from the north
// port, bottom-lane arcs from the south port, so the UNIQUE_B edges the
// lane resolver moved are drawn below the sentence. Arc colors come straight
// from the edge's render state. Edges without trigger hang off a small
// ROOT point.
//
//	Result → ToDOT() → DOT → RenderSVG() → SVG → render.ToPNG / render.ToPDF
//
// The DOT text is also a useful artifact on its own (arcdiff diff -f dot).
package nodelink
