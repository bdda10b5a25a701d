package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcdiff/pkg/annotate"
	"github.com/matzehuels/arcdiff/pkg/pipeline"
)

// diffOpts holds the command-line flags for the diff command.
type diffOpts struct {
	output      string // output file (single format), base path, or "-" for stdout
	formats     string // comma-separated output formats
	input       string // payload format: odin or conllu
	graphA      string
	graphB      string
	mode        string // auto, index or text
	sentence    string // annotate this sentence instead of reading files
	detailed    bool
	noCache     bool
	refresh     bool
	interactive bool

	enhanceUD        bool
	enhancedPlusPlus bool
	enhancedExtra    bool
}

// diffCommand creates the diff command, the main entry point of arcdiff.
func (c *CLI) diffCommand() *cobra.Command {
	var opts diffOpts

	cmd := &cobra.Command{
		Use:   "diff [file-a [file-b]]",
		Short: "Compare two dependency graphs of a sentence",
		Long: `Compare two dependency graphs of a sentence.

With one file, graph A and graph B are both read from it (an Odin payload
with several graphs, or a CoNLL-U sentence with basic and enhanced
dependencies). With two files, graph A is read from the first and graph B
from the second. Without files the sentence is sent to the configured
annotation service. Use "-" to read a payload from stdin.`,
		Example: `  arcdiff diff examples/odin/fox.json -f json,svg
  arcdiff diff examples/conllu/gapping.conllu -i
  arcdiff diff basic.conllu enhanced.conllu --mode index
  arcdiff diff --sentence "Sue wants to leave" --interactive`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			popts, err := opts.pipelineOptions(cmd, cfg.PipelineOptions(), args)
			if err != nil {
				return err
			}
			return c.runDiff(cmd.Context(), cmd, popts, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", `output file (single format), base path (several), or "-" for stdout`)
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): json, odin, dot, svg, png, pdf (comma-separated)")
	f.StringVar(&opts.input, "input", "", "payload format: odin, conllu (default: detected)")
	f.StringVar(&opts.graphA, "graph-a", "", "name of graph A")
	f.StringVar(&opts.graphB, "graph-b", "", "name of graph B")
	f.StringVarP(&opts.mode, "mode", "m", "", "matching mode: auto, index, text")
	f.StringVarP(&opts.sentence, "sentence", "s", "", "annotate this sentence instead of reading files")
	f.BoolVar(&opts.detailed, "detailed", false, "label arcs with their outcome in graph renderings")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")
	f.BoolVarP(&opts.interactive, "interactive", "i", false, "browse the classified edges")
	f.BoolVar(&opts.enhanceUD, "enhance-ud", false, "request enhanced UD from the annotation service")
	f.BoolVar(&opts.enhancedPlusPlus, "enhanced-plus-plus", false, "request enhanced++ UD from the annotation service")
	f.BoolVar(&opts.enhancedExtra, "enhanced-extra", false, "request the extra enhancements from the annotation service")

	_ = cmd.RegisterFlagCompletionFunc("mode", cobra.FixedCompletions([]string{"auto", "index", "text"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("input", cobra.FixedCompletions([]string{pipeline.InputOdin, pipeline.InputCoNLLU}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// pipelineOptions applies files and explicitly set flags over the
// configured defaults.
func (o *diffOpts) pipelineOptions(cmd *cobra.Command, base pipeline.Options, args []string) (pipeline.Options, error) {
	opts := base
	if len(args) > 0 && o.sentence != "" {
		return opts, fmt.Errorf("--sentence cannot be combined with payload files")
	}

	for i, path := range args {
		data, err := readPayload(path, cmd.InOrStdin())
		if err != nil {
			return opts, err
		}
		if i == 0 {
			opts.PayloadA = string(data)
		} else {
			opts.PayloadB = string(data)
		}
	}
	if len(args) == 1 {
		if resp, ok := annotationResponse([]byte(opts.PayloadA)); ok {
			opts.PayloadA, opts.PayloadB = string(resp.Basic), string(resp.Plus)
		}
	}

	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("input", &opts.Input, o.input)
	set("graph-a", &opts.GraphA, o.graphA)
	set("graph-b", &opts.GraphB, o.graphB)
	set("mode", &opts.Mode, o.mode)
	if flags.Changed("format") {
		opts.Formats = parseFormats(o.formats)
	}
	if flags.Changed("detailed") {
		opts.Detailed = o.detailed
	}
	if flags.Changed("enhance-ud") {
		opts.EnhanceUD = o.enhanceUD
	}
	if flags.Changed("enhanced-plus-plus") {
		opts.EnhancedPlusPlus = o.enhancedPlusPlus
	}
	if flags.Changed("enhanced-extra") {
		opts.EnhancedExtra = o.enhancedExtra
	}
	opts.Sentence = o.sentence
	opts.Refresh = o.refresh

	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}
	if o.output == "-" && len(opts.Formats) > 1 {
		return opts, fmt.Errorf("--output - needs exactly one format, got %d", len(opts.Formats))
	}
	return opts, nil
}

// annotationResponse reports whether data is a saved annotation service
// response (or an odin artifact), whose graphs live in two payloads.
func annotationResponse(data []byte) (*annotate.Response, bool) {
	var resp annotate.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false
	}
	return &resp, len(resp.Basic) > 0 && len(resp.Plus) > 0
}

// readPayload reads a file, or stdin for "-".
func readPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}

// runDiff executes the pipeline and writes its artifacts.
func (c *CLI) runDiff(ctx context.Context, cmd *cobra.Command, opts pipeline.Options, args []string, flags *diffOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.config()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	opts.Logger = logger
	prog := newProgress(logger)
	toStdout := flags.output == "-"
	result, err := spin(ctx, toStdout || !opts.Annotated(), "Annotating sentence", func() (*pipeline.Result, error) {
		return runner.Execute(ctx, opts)
	})
	if err != nil {
		return err
	}
	doc := result.Document
	prog.done(fmt.Sprintf("Compared %d edges with %d edges", len(doc.A.Edges), len(doc.B.Edges)))

	if toStdout {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, outputBase(flags.output, args))
	if err != nil {
		return err
	}

	printSuccess("Compared %s with %s", StyleValue.Render(doc.A.Name), StyleValue.Render(doc.B.Name))
	printStats(doc, result.CacheInfo.RenderHit)
	fmt.Println(summaryTable(doc))
	for _, p := range paths {
		printFile(p)
	}

	if flags.interactive {
		_, err := tea.NewProgram(newEdgeBrowser(doc), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}
	return nil
}

// outputBase derives the base path of the written artifacts: the
// --output flag without a format extension, else the first payload file
// without its extension, else "arcdiff".
func outputBase(output string, args []string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if len(args) > 0 && args[0] != "-" {
		return strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".diff"
	}
	return appName
}

// writeArtifacts writes one file per format, base + "." + format, in the
// order the formats were requested.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", format, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
