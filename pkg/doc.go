// Package pkg provides the libraries behind arcdiff, a comparison tool for
// dependency annotations.
//
// # Overview
//
// arcdiff takes two dependency graphs over one sentence (typically the basic
// and enhanced Universal Dependencies of a parser) and classifies every
// relation as MATCH, CONFLICT, UNIQUE_A or UNIQUE_B, then lays out the
// relations only one graph has so they do not collide with the other's.
// The pkg directory is organized into four areas:
//
//  1. Core: [depgraph], [align] and [diff] (graphs, word alignment, classification)
//  2. Codecs: [odin] and [conllu] (payload formats)
//  3. Orchestration: [pipeline] (decode → compare → render) and [render]
//  4. Infrastructure: [cache], [store], [annotate], [httputil], [server],
//     [config], [metrics] and [observability]
//
// # Architecture
//
// The typical data flow:
//
//	Odin JSON / CoNLL-U payload   (or a sentence → [annotate])
//	         ↓
//	    [odin] / [conllu]  (decode graph A and graph B)
//	         ↓
//	    [align] + [diff]   (match, classify, resolve lanes)
//	         ↓
//	    [render]           (JSON document, Odin, DOT, SVG, PNG, PDF)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/arcdiff/pkg/conllu"
//	    "github.com/matzehuels/arcdiff/pkg/diff"
//	    "github.com/matzehuels/arcdiff/pkg/render/sink"
//	)
//
//	a, _ := conllu.SentenceGraph(data, conllu.GraphBasic)
//	b, _ := conllu.SentenceGraph(data, conllu.GraphEnhanced)
//	m, _ := diff.NewMatcher(diff.ModeAuto, a, b)
//	res, _ := diff.Compare(a, b, m)
//	out, _ := sink.RenderJSON(res)
//
// Most callers use [pipeline.Runner] instead, which adds caching and the
// annotation service.
//
// # Mutation
//
// [diff.Compare] writes the render state (lane, slot, color) of the edges of
// both graphs. Graphs belong to one comparison; the pipeline rebuilds them
// from payload bytes for every run.
//
// [depgraph]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/depgraph
// [align]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/align
// [diff]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/diff
// [diff.Compare]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/diff#Compare
// [odin]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/odin
// [conllu]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/conllu
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/pipeline#Runner
// [render]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/store
// [annotate]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/annotate
// [httputil]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/httputil
// [server]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/config
// [metrics]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/metrics
// [observability]: https://pkg.go.dev/github.com/matzehuels/arcdiff/pkg/observability
package pkg
