// Package pipeline provides the comparison pipeline shared by the CLI and the
// HTTP API.
//
// The pipeline turns two annotation payloads (or a sentence, via the
// annotation service) into a classified comparison and its rendered
// artifacts. Centralizing it keeps the CLI and the API producing identical
// results from identical inputs.
//
// # Architecture
//
// A run has three stages:
//
//  1. Decode: build graph A and graph B from Odin JSON or CoNLL-U payloads
//  2. Compare: pick a matcher and classify every edge (package diff)
//  3. Render: produce the requested artifacts (JSON, Odin, DOT, SVG, PNG, PDF)
//
// The result of stage 3 is cached per artifact format, keyed by the payload
// bytes and every option that changes the output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:    pipeline.InputOdin,
//	    PayloadA: string(data),
//	    GraphA:   "universal-basic",
//	    GraphB:   "universal-enhanced",
//	    Formats:  []string{"json", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// When PayloadB is empty both graphs are read from PayloadA, which is the
// usual case of comparing two annotation schemes of one sentence.
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arcdiff/pkg/cache"
	"github.com/matzehuels/arcdiff/pkg/diff"
	apperrors "github.com/matzehuels/arcdiff/pkg/errors"
	"github.com/matzehuels/arcdiff/pkg/odin"
	"github.com/matzehuels/arcdiff/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultGraphA is the reference graph of a comparison.
	DefaultGraphA = odin.GraphBasic

	// DefaultGraphB is the graph compared against the reference.
	DefaultGraphB = odin.GraphEnhanced

	// DefaultTTL is how long rendered comparisons stay cached.
	DefaultTTL = 24 * time.Hour

	// DefaultPNGScale is the PNG resolution multiplier.
	DefaultPNGScale = 2.0
)

// Input formats.
const (
	InputOdin   = "odin"
	InputCoNLLU = "conllu"
)

// Format constants for output artifacts.
const (
	FormatJSON = "json"
	FormatOdin = "odin"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// formatDocument is the cache slot of the JSON document backing every run.
const formatDocument = "document"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatOdin: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// ValidInputs is the set of supported payload formats.
var ValidInputs = map[string]bool{
	InputOdin:   true,
	InputCoNLLU: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one comparison.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Either PayloadA is set, or the sentence is sent to the
	// runner's annotator.
	Input    string `json:"input,omitempty" validate:"omitempty,oneof=odin conllu"`
	PayloadA string `json:"payload_a,omitempty"`
	PayloadB string `json:"payload_b,omitempty"`
	GraphA   string `json:"graph_a,omitempty" validate:"omitempty,max=64"`
	GraphB   string `json:"graph_b,omitempty" validate:"omitempty,max=64"`

	// Annotation options, used when PayloadA is empty.
	Sentence         string `json:"sentence,omitempty" validate:"omitempty,max=2000"`
	EnhanceUD        bool   `json:"enhance_ud,omitempty"`
	EnhancedPlusPlus bool   `json:"enhanced_plus_plus,omitempty"`
	EnhancedExtra    bool   `json:"enhanced_extra,omitempty"`

	// Compare options
	Mode string `json:"mode,omitempty" validate:"omitempty,oneof=auto index text"`

	// Render options
	Formats  []string `json:"formats,omitempty" validate:"omitempty,dive,oneof=json odin dot svg png pdf"`
	Detailed bool     `json:"detailed,omitempty"`
	Refresh  bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diff is the classified comparison. It is nil when every artifact
	// came from the cache.
	Diff *diff.Result

	// Document is the JSON form of the comparison. It is always set.
	Document *sink.Document

	// PayloadHash is the content hash of both input payloads.
	PayloadHash string

	// Sentence is the annotated sentence, or the text of graph A.
	Sentence string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Summary returns the outcome counts of the comparison.
func (r *Result) Summary() diff.Summary {
	if r.Diff != nil {
		return r.Diff.Summary
	}
	if r.Document != nil {
		return r.Document.Summary
	}
	return diff.Summary{}
}

// Stats contains pipeline execution statistics.
type Stats struct {
	WordsA      int
	WordsB      int
	EdgesA      int
	EdgesB      int
	DecodeTime  time.Duration
	CompareTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	RenderHit bool // Whether the document and all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: %s)", format, strings.Join(sortedKeys(ValidFormats), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInput checks that an input format is valid.
func ValidateInput(input string) error {
	if !ValidInputs[input] {
		return apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid input format: %q (must be one of: odin, conllu)", input)
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := apperrors.ValidateStruct(o); err != nil {
		return err
	}
	if o.PayloadA == "" && o.PayloadB != "" {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "payload_b requires payload_a")
	}
	if o.Sentence != "" {
		if err := apperrors.ValidateSentence(o.Sentence); err != nil {
			return err
		}
	}
	o.SetDefaults()
	for _, name := range []string{o.GraphA, o.GraphB} {
		if err := apperrors.ValidateGraphName(name); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// SetDefaults fills in empty fields.
func (o *Options) SetDefaults() {
	if o.Input == "" {
		o.Input = detectInput(o.PayloadA)
	}
	if o.GraphA == "" {
		o.GraphA = DefaultGraphA
	}
	if o.GraphB == "" {
		o.GraphB = DefaultGraphB
	}
	if o.Mode == "" {
		o.Mode = diff.ModeAuto.String()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Annotated reports whether the payloads come from the annotation service.
func (o *Options) Annotated() bool {
	return o.PayloadA == ""
}

// DiffKeyOpts returns cache key options for the artifact format.
func (o *Options) DiffKeyOpts(format string) cache.DiffKeyOpts {
	return cache.DiffKeyOpts{
		Input:  o.Input,
		Format: format,
		GraphA: o.GraphA,
		GraphB: o.GraphB,
		Mode:   detailedMode(o.Mode, o.Detailed),
	}
}

func detailedMode(mode string, detailed bool) string {
	if detailed {
		return mode + "+detailed"
	}
	return mode
}

// detectInput guesses the payload format: Odin payloads are JSON objects.
func detectInput(payload string) string {
	if strings.HasPrefix(strings.TrimSpace(payload), "{") || payload == "" {
		return InputOdin
	}
	return InputCoNLLU
}
