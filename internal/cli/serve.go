package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcdiff/pkg/metrics"
	"github.com/matzehuels/arcdiff/pkg/server"
	"github.com/matzehuels/arcdiff/pkg/store"
)

// serveCommand creates the serve command, which runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison API over HTTP",
		Long: `Serve the comparison API over HTTP until interrupted.

The cache, history store and annotation service are taken from the config
file; see "arcdiff config show".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			st, err := store.Open(ctx, cfg.StoreOptions())
			if err != nil {
				return err
			}
			defer st.Close(ctx)

			opts := []server.Option{
				server.WithLogger(logger),
				server.WithDefaults(cfg.PipelineOptions()),
				server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
				server.WithTimeouts(cfg.Server.ReadTimeout.Duration, cfg.Server.WriteTimeout.Duration),
			}
			if cfg.Server.Metrics && !noMetrics {
				reg := metrics.DefaultRegistry()
				reg.Install()
				opts = append(opts, server.WithMetrics(reg.Handler()))
			}

			logger.Info("starting server",
				"addr", cfg.Server.Addr,
				"cache", cfg.Cache.Backend,
				"store", cfg.Store.Backend,
				"annotator", cfg.Annotator.URL)
			return server.New(runner, st, opts...).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	f.BoolVar(&noMetrics, "no-metrics", false, "do not serve /metrics")
	f.BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
