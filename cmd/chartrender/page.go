package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pagecharts/internal/charts"
	"pagecharts/internal/fetchers"
	"pagecharts/internal/hydrate"
	"pagecharts/internal/storage"
)

type pageOptions struct {
	data   string
	base   string
	page   string
	attr   string
	outDir string
}

func newPageCmd() *cobra.Command {
	opts := &pageOptions{}

	cmd := &cobra.Command{
		Use:   "page",
		Short: "Render every chart placeholder of an HTML page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.data, "data", "", "Dataset URL or file path (required)")
	cmd.Flags().StringVar(&opts.base, "base", "", "Base URL relative --data references resolve against")
	cmd.Flags().StringVar(&opts.page, "page", "index.html", "HTML page to scan")
	cmd.Flags().StringVar(&opts.attr, "attr", "data-visualizacion", "Attribute naming the chart key")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "charts", "Output directory")
	cmd.MarkFlagRequired("data")

	return cmd
}

func runPage(cmd *cobra.Command, opts *pageOptions) error {
	f, err := os.Open(opts.page)
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer f.Close()

	placeholders, err := hydrate.ScanPlaceholders(f, opts.attr)
	if err != nil {
		return err
	}

	source, err := fetchers.NewDataSource(opts.base)
	if err != nil {
		return err
	}
	store, err := storage.NewLocalStorageClient(opts.outDir)
	if err != nil {
		return err
	}
	defer store.Close()

	h := hydrate.NewHydrator(source, charts.NewRenderer(), store)
	rendered, err := h.Hydrate(cmd.Context(), opts.data, placeholders)
	for _, r := range rendered {
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(store.BaseDir(), r.Path))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d placeholders rendered\n", len(rendered), len(placeholders))
	return nil
}
