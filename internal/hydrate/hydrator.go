package hydrate

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"golang.org/x/sync/errgroup"

	"pagecharts/internal/charts"
	"pagecharts/internal/logger"
	"pagecharts/internal/models"
	"pagecharts/internal/storage"
)

// DatasetSource hands out the dataset document behind a reference.
// *fetchers.DataSource is the production implementation.
type DatasetSource interface {
	Get(ctx context.Context, ref string) (models.Dataset, error)
}

// Rendered describes one chart written to storage
type Rendered struct {
	Placeholder Placeholder `json:"placeholder"`
	Path        string      `json:"path"`
	Bytes       int         `json:"bytes"`
}

// Hydrator renders page placeholders from a dataset and stores the PNGs
type Hydrator struct {
	source      DatasetSource
	renderer    *charts.Renderer
	store       storage.StorageClient
	log         *logger.Logger
	prefix      string
	concurrency int
}

// Option configures a Hydrator
type Option func(*Hydrator)

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(h *Hydrator) { h.log = l.WithComponent("hydrate") }
}

// WithPrefix stores charts under dir instead of the storage root
func WithPrefix(dir string) Option {
	return func(h *Hydrator) { h.prefix = dir }
}

// WithConcurrency bounds how many charts Hydrate renders at once
func WithConcurrency(n int) Option {
	return func(h *Hydrator) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

// NewHydrator wires a dataset source, a renderer and a storage client
func NewHydrator(source DatasetSource, renderer *charts.Renderer, store storage.StorageClient, opts ...Option) *Hydrator {
	h := &Hydrator{
		source:      source,
		renderer:    renderer,
		store:       store,
		log:         logger.Component("hydrate"),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hydrate fetches the dataset once and renders every placeholder whose key
// it knows. A dataset that cannot be loaded is not an error here: the
// DataSource already reported it, and no chart is drawn at all.
// Storage failures are collected and returned together.
func (h *Hydrator) Hydrate(ctx context.Context, dataURL string, placeholders []Placeholder) ([]Rendered, error) {
	if len(placeholders) == 0 {
		return nil, nil
	}

	start := time.Now()
	dataset, err := h.source.Get(ctx, dataURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		h.log.Debug("Dataset unavailable, leaving placeholders empty", logger.Fields{
			"url":          dataURL,
			"placeholders": len(placeholders),
		})
		return nil, nil
	}

	results := make([]*Rendered, len(placeholders))
	errs := make([]error, len(placeholders))

	var g errgroup.Group
	g.SetLimit(h.concurrency)
	for i, p := range placeholders {
		g.Go(func() error {
			results[i], errs[i] = h.renderOne(ctx, dataset, p)
			return nil
		})
	}
	_ = g.Wait()

	var rendered []Rendered
	for _, r := range results {
		if r != nil {
			rendered = append(rendered, *r)
		}
	}

	h.log.Info("Hydrated page charts", logger.Fields{
		"url":          dataURL,
		"placeholders": len(placeholders),
		"rendered":     len(rendered),
		"duration":     time.Since(start).String(),
	})
	return rendered, errors.Join(errs...)
}

// Watch renders placeholders as they become visible. The dataset is shared
// through the source's cache, so only the first event triggers a fetch.
// It returns nil when visible is closed and ctx.Err() when ctx is done.
func (h *Hydrator) Watch(ctx context.Context, dataURL string, visible <-chan Placeholder) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case p, ok := <-visible:
			if !ok {
				return nil
			}
			dataset, err := h.source.Get(ctx, dataURL)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				continue
			}
			if _, err := h.renderOne(ctx, dataset, p); err != nil {
				h.log.Error("Failed to render visible chart", err, logger.Fields{"id": p.ID, "key": p.Key})
			}
		}
	}
}

// renderOne returns (nil, nil) for placeholders that are skipped
func (h *Hydrator) renderOne(ctx context.Context, dataset models.Dataset, p Placeholder) (*Rendered, error) {
	if p.Key == "" {
		return nil, nil
	}
	spec, ok := dataset.Lookup(p.Key)
	if !ok {
		h.log.Debug("No chart for placeholder key", logger.Fields{"id": p.ID, "key": p.Key})
		return nil, nil
	}
	if p.Width <= 0 || p.Height <= 0 {
		h.log.Warn("Skipping zero-sized placeholder", logger.Fields{"id": p.ID, "width": p.Width, "height": p.Height})
		return nil, nil
	}

	canvas, err := charts.NewCanvas(p.Width, p.Height)
	if err != nil {
		return nil, fmt.Errorf("placeholder %s: %w", p.ID, err)
	}
	if err := h.renderer.Render(canvas, spec); err != nil {
		return nil, fmt.Errorf("placeholder %s: %w", p.ID, err)
	}
	data, err := canvas.Bytes()
	if err != nil {
		return nil, fmt.Errorf("placeholder %s: %w", p.ID, err)
	}

	target := path.Join(h.prefix, storage.ChartFileName(p.ID))
	if err := h.store.StoreFile(ctx, target, data); err != nil {
		return nil, fmt.Errorf("placeholder %s: %w", p.ID, err)
	}
	return &Rendered{Placeholder: p, Path: target, Bytes: len(data)}, nil
}
