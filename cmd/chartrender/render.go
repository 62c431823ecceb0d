package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pagecharts/internal/charts"
	"pagecharts/internal/fetchers"
	"pagecharts/internal/storage"
)

type renderOptions struct {
	data    string
	base    string
	keys    []string
	width   int
	height  int
	outDir  string
	snippet bool
}

func newRenderCmd() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render charts of a dataset by key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.data, "data", "", "Dataset URL or file path (required)")
	cmd.Flags().StringVar(&opts.base, "base", "", "Base URL relative --data references resolve against")
	cmd.Flags().StringSliceVar(&opts.keys, "key", nil, "Chart keys to render (default: all)")
	cmd.Flags().IntVar(&opts.width, "width", 800, "Surface width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 400, "Surface height in pixels")
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "charts", "Output directory")
	cmd.Flags().BoolVar(&opts.snippet, "html", false, "Also write an interactive HTML version of each chart")
	cmd.MarkFlagRequired("data")

	return cmd
}

func runRender(cmd *cobra.Command, opts *renderOptions) error {
	ctx := cmd.Context()

	source, err := fetchers.NewDataSource(opts.base)
	if err != nil {
		return err
	}
	dataset, err := source.Get(ctx, opts.data)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	keys := opts.keys
	if len(keys) == 0 {
		keys = dataset.Keys()
	}

	store, err := storage.NewLocalStorageClient(opts.outDir)
	if err != nil {
		return err
	}
	defer store.Close()

	canvas, err := charts.NewCanvas(opts.width, opts.height)
	if err != nil {
		return err
	}
	renderer := charts.NewRenderer()

	for _, key := range keys {
		spec, ok := dataset.Lookup(key)
		if !ok {
			return fmt.Errorf("unknown chart %q", key)
		}
		if err := renderer.Render(canvas, spec); err != nil {
			return fmt.Errorf("failed to render %s: %w", key, err)
		}
		data, err := canvas.Bytes()
		if err != nil {
			return err
		}
		name := storage.ChartFileName(key)
		if err := store.StoreFile(ctx, name, data); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(store.BaseDir(), name))

		if opts.snippet {
			snippet, err := charts.Snippet(key, key, spec, opts.width, opts.height)
			if err != nil {
				return err
			}
			if err := store.StoreFile(ctx, key+".html", []byte(snippet.HTML)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(store.BaseDir(), key+".html"))
		}
	}
	return nil
}
