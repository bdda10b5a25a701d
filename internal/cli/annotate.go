package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/arcdiff/pkg/annotate"
)

// annotateCommand creates the annotate command, which fetches the Odin
// payloads of a sentence from the annotation service.
func (c *CLI) annotateCommand() *cobra.Command {
	var (
		output  string
		url     string
		noCache bool
		refresh bool
		req     annotate.Request
	)

	cmd := &cobra.Command{
		Use:   "annotate [sentence]",
		Short: "Fetch the annotations of a sentence",
		Long: `Send a sentence to the annotation service and print its response,
{"basic": <odin>, "plus": <odin>}. The output can be passed to "arcdiff diff".`,
		Example: `  arcdiff annotate "Sue wants to leave" -o sue.json
  arcdiff diff sue.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if url != "" {
				cfg.Annotator.URL = url
			}
			if cfg.Annotator.URL == "" {
				return fmt.Errorf("no annotation service configured (set [annotator] url or pass --url)")
			}

			req.Sentence = annotate.DefaultSentence
			if len(args) > 0 {
				req.Sentence = strings.TrimSpace(args[0])
			}
			flags := cmd.Flags()
			if !flags.Changed("enhance-ud") {
				req.EnhanceUD = cfg.Annotator.EnhanceUD
			}
			if !flags.Changed("enhanced-plus-plus") {
				req.EnhancedPlusPlus = cfg.Annotator.EnhancedPlusPlus
			}
			if !flags.Changed("enhanced-extra") {
				req.EnhancedExtra = cfg.Annotator.EnhancedExtra
			}

			cc, err := newCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer cc.Close()
			client := newAnnotator(cfg, cc)

			loggerFromContext(ctx).Info("annotating", "endpoint", client.Endpoint(), "sentence", req.Sentence)
			resp, err := spin(ctx, output == "", "Annotating sentence", func() (*annotate.Response, error) {
				return client.Annotate(ctx, req, refresh)
			})
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return err
			}
			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Annotated %q", req.Sentence)
			printFile(output)
			printNextStep("Compare the graphs", "arcdiff diff "+output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (default stdout)")
	f.StringVar(&url, "url", "", "annotation service base URL (overrides the config)")
	f.BoolVar(&noCache, "no-cache", false, "disable the response cache")
	f.BoolVar(&refresh, "refresh", false, "bypass cached responses")
	f.BoolVar(&req.EnhanceUD, "enhance-ud", false, "request enhanced UD")
	f.BoolVar(&req.EnhancedPlusPlus, "enhanced-plus-plus", false, "request enhanced++ UD")
	f.BoolVar(&req.EnhancedExtra, "enhanced-extra", false, "request the extra enhancements")

	return cmd
}
