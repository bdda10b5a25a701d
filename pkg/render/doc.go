// Package render turns classified comparisons into visual outputs.
//
// # Overview
//
// The diff core only mutates each edge's render state (lane, slot, color).
// Drawing arcs is left to a renderer. This package and its subpackages
// provide the renderers the CLI and HTTP API use:
//
//   - Graphviz diagrams of both graphs (in [nodelink] subpackage)
//   - A JSON document for web front ends (in [sink] subpackage)
//   - Generic format conversion (SVG to PDF/PNG)
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG to other formats using the external
// rsvg-convert tool (from librsvg).
//
//	dot := nodelink.ToDOT(result, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// [nodelink]: github.com/matzehuels/arcdiff/pkg/render/nodelink
// [sink]: github.com/matzehuels/arcdiff/pkg/render/sink
package render
