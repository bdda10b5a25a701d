package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcdiff/pkg/annotate"
	"github.com/matzehuels/arcdiff/pkg/cache"
	"github.com/matzehuels/arcdiff/pkg/depgraph"
	"github.com/matzehuels/arcdiff/pkg/diff"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
	"github.com/matzehuels/arcdiff/pkg/observability"
	"github.com/matzehuels/arcdiff/pkg/render/sink"
)

// Annotator produces the payloads of a sentence. *annotate.Client
// implements it.
type Annotator interface {
	Annotate(ctx context.Context, req annotate.Request, refresh bool) (*annotate.Response, error)
}

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so that caching behaves the same everywhere.
//
// The Runner is stateless except for its collaborators: graphs are rebuilt
// from the payload bytes on every run and never shared between runs.
// Multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Annotator Annotator // optional; required for sentence input
	TTL       time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Execute runs the complete decode → compare → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	payloadA, payloadB, sentence, err := r.Payloads(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		PayloadHash: cache.HashAll(payloadA, payloadB),
		Sentence:    sentence,
		Artifacts:   make(map[string][]byte),
	}

	if !opts.Refresh {
		if doc, artifacts, ok := r.cached(ctx, result.PayloadHash, opts); ok {
			result.Document = doc
			result.Artifacts = artifacts
			result.Sentence = doc.Sentence
			result.CacheInfo.RenderHit = true
			result.Stats = documentStats(doc)
			logger.Debug("comparison from cache", "hash", shortHash(result.PayloadHash))
			return result, nil
		}
	}

	// Stage 1: Decode
	if len(payloadB) == 0 {
		payloadB = payloadA
	}
	decodeStart := time.Now()
	a, err := r.Decode(ctx, opts.Input, payloadA, opts.GraphA)
	if err != nil {
		return nil, err
	}
	b, err := r.Decode(ctx, opts.Input, payloadB, opts.GraphB)
	if err != nil {
		return nil, err
	}
	result.Stats.DecodeTime = time.Since(decodeStart)
	result.Stats.WordsA, result.Stats.WordsB = a.WordCount(), b.WordCount()
	result.Stats.EdgesA, result.Stats.EdgesB = a.EdgeCount(), b.EdgeCount()
	if result.Sentence == "" {
		result.Sentence = sentenceText(a)
	}

	logger.Info("decoded graphs",
		"a", a.Name, "edges_a", a.EdgeCount(),
		"b", b.Name, "edges_b", b.EdgeCount(),
		"duration", result.Stats.DecodeTime)

	// Stage 2: Compare
	compareStart := time.Now()
	res, m, err := r.Compare(ctx, a, b, opts.Mode)
	if err != nil {
		return nil, err
	}
	result.Diff = res
	result.Stats.CompareTime = time.Since(compareStart)

	logger.Info("compared graphs",
		"mode", res.Mode,
		"match", res.Summary.Match,
		"conflict", res.Summary.Conflict,
		"unique_a", res.Summary.UniqueA,
		"unique_b", res.Summary.UniqueB,
		"moved", res.Summary.Moved)

	// Stage 3: Render
	renderStart := time.Now()
	doc := BuildDocument(res, m, result.Sentence)
	result.Document = &doc
	artifacts, err := Render(ctx, res, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	r.store(ctx, result.PayloadHash, opts, doc, artifacts)
	return result, nil
}

// Payloads returns the two payloads of a run and the sentence they
// annotate. Without PayloadA the sentence is sent to the annotator; its
// basic payload becomes A and its plus payload B. payloadB is empty when
// both graphs come from payloadA.
func (r *Runner) Payloads(ctx context.Context, opts Options) (payloadA, payloadB []byte, sentence string, err error) {
	if !opts.Annotated() {
		return []byte(opts.PayloadA), []byte(opts.PayloadB), "", nil
	}
	if r.Annotator == nil {
		return nil, nil, "", apperrors.New(apperrors.ErrCodeInvalidInput,
			"no payload given and no annotation service configured")
	}
	if opts.Input != InputOdin {
		return nil, nil, "", apperrors.New(apperrors.ErrCodeInvalidInput,
			"annotation service payloads are %s, not %s", InputOdin, opts.Input)
	}

	sentence = opts.Sentence
	if sentence == "" {
		sentence = annotate.DefaultSentence
	}
	resp, err := r.Annotator.Annotate(ctx, annotate.Request{
		Sentence:         sentence,
		EnhanceUD:        opts.EnhanceUD,
		EnhancedPlusPlus: opts.EnhancedPlusPlus,
		EnhancedExtra:    opts.EnhancedExtra,
	}, opts.Refresh)
	if err != nil {
		return nil, nil, "", err
	}
	return resp.Basic, resp.Plus, sentence, nil
}

// Decode builds the named graph from a payload.
func (r *Runner) Decode(ctx context.Context, input string, payload []byte, graph string) (g *depgraph.Graph, err error) {
	hooks := observability.Pipeline()
	hooks.OnDecodeStart(ctx, input, graph)
	start := time.Now()
	defer func() {
		edges := 0
		if g != nil {
			edges = g.EdgeCount()
		}
		hooks.OnDecodeComplete(ctx, input, graph, edges, time.Since(start), err)
	}()
	return Decode(input, payload, graph)
}

// Compare resolves mode, classifies a against b and returns the result
// with the matcher that produced it.
func (r *Runner) Compare(ctx context.Context, a, b *depgraph.Graph, mode string) (*diff.Result, diff.Matcher, error) {
	parsed, err := diff.ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}
	m, err := diff.NewMatcher(parsed, a, b)
	if err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	resolved := m.Mode().String()
	hooks.OnCompareStart(ctx, resolved, a.EdgeCount(), b.EdgeCount())
	start := time.Now()
	res, err := diff.Compare(a, b, m)
	var stats observability.CompareStats
	if res != nil {
		s := res.Summary
		stats = observability.CompareStats{
			Match:    s.Match,
			Conflict: s.Conflict,
			UniqueA:  s.UniqueA,
			UniqueB:  s.UniqueB,
			Moved:    s.Moved,
		}
	}
	hooks.OnCompareComplete(ctx, resolved, stats, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return res, m, nil
}

// BuildDocument converts a comparison into its JSON document, including
// the word alignment when m is an index matcher.
func BuildDocument(res *diff.Result, m diff.Matcher, sentence string) sink.Document {
	opts := []sink.JSONOption{sink.WithJSONSentence(sentence)}
	if im, ok := m.(*diff.IndexMatcher); ok {
		opts = append(opts, sink.WithJSONShift(im.Shift()))
	}
	return sink.Build(res, opts...)
}

// cached returns the document and every requested artifact if all of them
// are in the cache.
func (r *Runner) cached(ctx context.Context, hash string, opts Options) (*sink.Document, map[string][]byte, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, r.Keyer.DiffKey(hash, opts.DiffKeyOpts(formatDocument)))
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "diff")
		return nil, nil, false
	}
	var doc sink.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		hooks.OnCacheMiss(ctx, "diff")
		return nil, nil, false
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.Keyer.DiffKey(hash, opts.DiffKeyOpts(format)))
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "diff")
			return nil, nil, false
		}
		artifacts[format] = data
	}
	hooks.OnCacheHit(ctx, "diff")
	return &doc, artifacts, true
}

// store caches the document and artifacts. Failures are logged and
// otherwise ignored; the result is already computed.
func (r *Runner) store(ctx context.Context, hash string, opts Options, doc sink.Document, artifacts map[string][]byte) {
	hooks := observability.Cache()
	data, err := json.Marshal(doc)
	if err != nil {
		opts.Logger.Warn("encode document for cache", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, r.Keyer.DiffKey(hash, opts.DiffKeyOpts(formatDocument)), data, r.TTL); err != nil {
		opts.Logger.Warn("cache document", "error", err)
		return
	}
	hooks.OnCacheSet(ctx, "diff", len(data))
	for format, data := range artifacts {
		if err := r.Cache.Set(ctx, r.Keyer.DiffKey(hash, opts.DiffKeyOpts(format)), data, r.TTL); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "diff", len(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func documentStats(doc *sink.Document) Stats {
	return Stats{
		WordsA: len(doc.A.Words),
		WordsB: len(doc.B.Words),
		EdgesA: len(doc.A.Edges),
		EdgesB: len(doc.B.Edges),
	}
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
