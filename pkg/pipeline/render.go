package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/arcdiff/pkg/annotate"
	"github.com/matzehuels/arcdiff/pkg/diff"
	"github.com/matzehuels/arcdiff/pkg/odin"
	"github.com/matzehuels/arcdiff/pkg/observability"
	"github.com/matzehuels/arcdiff/pkg/render/nodelink"
	"github.com/matzehuels/arcdiff/pkg/render/sink"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, res *diff.Result, doc sink.Document, opts Options) (artifacts map[string][]byte, err error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	defer func() {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	artifacts = make(map[string][]byte, len(opts.Formats))
	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = nodelink.ToDOT(res, nodelink.Options{Detailed: opts.Detailed})
		}
		return dot
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = json.MarshalIndent(doc, "", "  ")
		case FormatOdin:
			data, err = RenderOdin(res, doc.Sentence)
		case FormatDOT:
			data = []byte(dotSource())
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dotSource())
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dotSource(), DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dotSource())
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderOdin writes both graphs, with their render state, in the shape the
// annotation service answers with: {"basic": <odin>, "plus": <odin>}.
// Front ends that draw annotation responses can draw comparisons unchanged.
func RenderOdin(res *diff.Result, text string) ([]byte, error) {
	basic, err := odin.Marshal(odin.NewPayload(text, *odin.NewSentence(res.A)))
	if err != nil {
		return nil, err
	}
	plus, err := odin.Marshal(odin.NewPayload(text, *odin.NewSentence(res.B)))
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(annotate.Response{Basic: basic, Plus: plus}, "", "  ")
}
