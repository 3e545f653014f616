package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adaptiveflow/internal/server"
	"github.com/matzehuels/adaptiveflow/pkg/config"
)

// serveCommand starts the HTTP preview API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts and renders over HTTP",
		Long: `Serve layouts and renders over HTTP.

Endpoints take the dialog document as the request body:

  POST /v1/layout            flowchart JSON
  POST /v1/render/{format}   svg, png, pdf, json or dot
  POST /v1/navigate          {"document": ..., "focused": ..., "command": "down"}
  GET  /healthz

Use --cache redis to share cached boundaries between several instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			logger := loggerFromContext(cmd.Context()).WithPrefix("http")
			srv := server.New(runner, *cfg, logger)
			return srv.ListenAndServe(cmd.Context(), func(addr string) {
				printSuccess("Listening on %s", StyleLink.Render("http://"+addr))
				printKeyValue("cache", cacheLocation(cfg.Cache))
				printKeyValue("max body", fmt.Sprintf("%d bytes", cfg.Server.MaxBodyBytes))
			})
		},
	}

	cmd.Flags().String("addr", config.Default().Server.Addr, "listen address")
	return cmd
}
