// Command chartrender renders page charts to PNG files without the server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pagecharts/internal/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:   "chartrender",
		Short: "Render grouped bar charts from a dataset document",
		Long: `chartrender fetches a chart dataset (URL or file) and renders its charts
as PNG files, either by key or for every placeholder canvas of an HTML page.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := logger.ParseLevel(logLevel); !ok {
				return fmt.Errorf("invalid log level: %s", logLevel)
			}
			if _, ok := logger.ParseFormat(logFormat); !ok {
				return fmt.Errorf("invalid log format: %s", logFormat)
			}
			logger.Configure(logLevel, logFormat)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: json or text")

	root.AddCommand(newRenderCmd(), newPageCmd())
	return root
}
