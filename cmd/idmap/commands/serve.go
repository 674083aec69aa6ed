package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/idmap/internal/app"
)

func (c *CLI) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve documents over HTTP with per-request identity scopes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			outputMode, _ := cmd.Flags().GetString("output-mode")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			watch, _ := cmd.Flags().GetStringSlice("watch")

			// If --log-json is set, override output-mode to "json"
			if logJSON {
				outputMode = "json"
			}

			return c.app.Serve(cmd.Context(), app.ServeOptions{
				Addr:       addr,
				OutputMode: outputMode,
				WatchPaths: watch,
			})
		},
	}
	cmd.Flags().StringP("addr", "a", ":8080", "Listen address for the document service")
	cmd.Flags().StringP("output-mode", "o", "auto", "Log output mode: auto, pretty, or json")
	cmd.Flags().Bool("log-json", false, "Use JSON log output (shorthand for --output-mode=json)")
	cmd.Flags().StringSlice("watch", nil, "Additional paths to watch for reload clearing")
	return cmd
}
