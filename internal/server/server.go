package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"pagecharts/internal/charts"
	"pagecharts/internal/config"
	"pagecharts/internal/fetchers"
	"pagecharts/internal/hydrate"
	"pagecharts/internal/logger"
	"pagecharts/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config   *config.Config
	Source   *fetchers.DataSource
	Renderer *charts.Renderer
	Hydrator *hydrate.Hydrator
	Storage  storage.StorageClient

	markdown     goldmark.Markdown
	log          *logger.Logger
	hydrateMutex sync.Mutex
}

// NewServer builds the data source and storage client described by cfg
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	source, err := fetchers.NewDataSource(cfg.DataBaseURL,
		fetchers.WithTimeout(cfg.FetchTimeout),
		fetchers.WithRetries(cfg.FetchRetries),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data source: %w", err)
	}

	store, err := storage.NewStorageClient(ctx, storage.DeploymentMode(cfg.DeploymentMode), cfg)
	if err != nil {
		return nil, err
	}

	return New(cfg, source, charts.NewRenderer(), store), nil
}

// New assembles a server from ready-made parts
func New(cfg *config.Config, source *fetchers.DataSource, renderer *charts.Renderer, store storage.StorageClient) *Server {
	log := logger.Component("server")
	return &Server{
		Config:   cfg,
		Source:   source,
		Renderer: renderer,
		Hydrator: hydrate.NewHydrator(source, renderer, store),
		Storage:  store,
		markdown: goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough)),
		log:      log,
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", s.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/charts", s.HandleListCharts).Methods(http.MethodGet)
	r.HandleFunc("/charts/{key}.png", s.HandleChartImage).Methods(http.MethodGet)
	r.HandleFunc("/charts/{key}/preview", s.HandleChartPreview).Methods(http.MethodGet)
	r.HandleFunc("/hydrate", s.HandleHydrate).Methods(http.MethodPost)
	r.HandleFunc("/files/{path:.+}", s.HandleFileProxy).Methods(http.MethodGet)

	return r
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("Handled request", logger.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}
