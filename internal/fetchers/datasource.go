package fetchers

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/singleflight"

	"pagecharts/internal/logger"
	"pagecharts/internal/models"
)

// DataSource loads dataset documents and keeps them for its whole lifetime.
//
// Concurrent Get calls for the same document share one underlying fetch.
// The outcome of that fetch, success or failure, is final: there is no
// retry on a later Get and no invalidation short of Reset. Returned
// datasets are shared between callers and must be treated as read-only.
type DataSource struct {
	client *resty.Client
	base   *url.URL
	log    *logger.Logger

	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]result

	fetches atomic.Int64
}

type result struct {
	dataset models.Dataset
	err     error
}

// Option configures a DataSource
type Option func(*DataSource)

// WithClient replaces the HTTP client
func WithClient(client *resty.Client) Option {
	return func(s *DataSource) { s.client = client }
}

// WithLogger sets the logger; the component name is overridden
func WithLogger(l *logger.Logger) Option {
	return func(s *DataSource) { s.log = l.WithComponent("datasource") }
}

// WithTimeout bounds each fetch. Zero means wait forever.
func WithTimeout(d time.Duration) Option {
	return func(s *DataSource) { s.client.SetTimeout(d) }
}

// WithRetries retries failed requests. Zero means a single attempt.
func WithRetries(n int) Option {
	return func(s *DataSource) {
		s.client.SetRetryCount(n)
		s.client.SetRetryWaitTime(500 * time.Millisecond)
	}
}

// NewDataSource creates a data source. Relative references passed to Get are
// resolved against baseURL, which may be empty.
func NewDataSource(baseURL string, opts ...Option) (*DataSource, error) {
	s := &DataSource{
		client: resty.New(),
		log:    logger.Component("datasource"),
		cache:  make(map[string]result),
	}
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
		}
		s.base = u
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get returns the dataset stored at ref, fetching it on first use.
//
// Cancelling ctx only stops this caller from waiting; a fetch already in
// flight runs to completion and its outcome is still cached.
func (s *DataSource) Get(ctx context.Context, ref string) (models.Dataset, error) {
	target, err := s.resolve(ref)
	if err != nil {
		return nil, &DataUnavailableError{URL: ref, Err: err}
	}

	if r, ok := s.lookup(target); ok {
		return r.dataset, r.err
	}

	ch := s.group.DoChan(target, func() (interface{}, error) {
		if r, ok := s.lookup(target); ok {
			return r, nil
		}
		r := s.fetch(context.WithoutCancel(ctx), target)
		s.mu.Lock()
		s.cache[target] = r
		s.mu.Unlock()
		return r, nil
	})

	select {
	case res := <-ch:
		r := res.Val.(result)
		return r.dataset, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Fetches reports how many underlying loads have been started
func (s *DataSource) Fetches() int64 {
	return s.fetches.Load()
}

// Reset forgets every cached outcome
func (s *DataSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]result)
}

func (s *DataSource) lookup(target string) (result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.cache[target]
	return r, ok
}

// resolve turns ref into an absolute URL, or a clean filesystem path
func (s *DataSource) resolve(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty dataset reference")
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid dataset reference %q: %w", ref, err)
	}
	if s.base != nil {
		u = s.base.ResolveReference(u)
	}
	switch u.Scheme {
	case "":
		return filepath.Clean(u.Path), nil
	case "file", "http", "https":
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported scheme %q in %s", u.Scheme, u)
	}
}

func (s *DataSource) fetch(ctx context.Context, target string) result {
	s.fetches.Add(1)
	start := time.Now()

	body, err := s.load(ctx, target)
	if err != nil {
		s.log.Error("Failed to load chart data", err, logger.Fields{"url": target})
		return result{err: err}
	}

	ds, err := models.ParseDataset(body)
	if err != nil {
		merr := &MalformedDatasetError{URL: target, Err: err}
		s.log.Error("Failed to parse chart data", merr, logger.Fields{"url": target})
		return result{err: merr}
	}

	s.log.Info("Chart data loaded", logger.Fields{
		"url":      target,
		"charts":   len(ds),
		"bytes":    len(body),
		"duration": time.Since(start).String(),
	})
	return result{dataset: ds}
}

func (s *DataSource) load(ctx context.Context, target string) ([]byte, error) {
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		path := target
		if err == nil && u.Scheme == "file" {
			path = u.Path
		}
		body, rerr := os.ReadFile(path)
		if rerr != nil {
			return nil, &DataUnavailableError{URL: target, Err: rerr}
		}
		return body, nil
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(target)
	if err != nil {
		return nil, &DataUnavailableError{URL: target, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &DataUnavailableError{URL: target, StatusCode: resp.StatusCode()}
	}
	return resp.Body(), nil
}
