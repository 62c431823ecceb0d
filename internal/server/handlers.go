package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"pagecharts/internal/charts"
	"pagecharts/internal/hydrate"
	"pagecharts/internal/logger"
	"pagecharts/internal/models"
	"pagecharts/internal/storage"
)

// Size of on-demand renders when the query does not say
const (
	defaultChartWidth  = 800
	defaultChartHeight = 400
	maxChartSide       = 4096
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": status,
	})
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks": map[string]interface{}{
			"storage": s.Config.DeploymentMode,
			"fetches": s.Source.Fetches(),
		},
	})
}

// dataset loads the configured dataset. Failures were already logged by
// the data source, so callers only translate them into a 503.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (models.Dataset, bool) {
	ds, err := s.Source.Get(r.Context(), s.Config.DataURL)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "chart data unavailable")
		return nil, false
	}
	return ds, true
}

// HandleListCharts lists the chart keys of the dataset
func (s *Server) HandleListCharts(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataset(w, r)
	if !ok {
		return
	}
	keys := ds.Keys()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"charts": keys,
		"count":  len(keys),
	})
}

// HandleChartImage renders one chart as PNG at the requested size
func (s *Server) HandleChartImage(w http.ResponseWriter, r *http.Request) {
	width, height, err := chartSize(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, ok := s.dataset(w, r)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	spec, found := ds.Lookup(key)
	if !found {
		writeError(w, http.StatusNotFound, "unknown chart "+strconv.Quote(key))
		return
	}

	canvas, err := charts.NewCanvas(width, height)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.Renderer.Render(canvas, spec); err != nil {
		s.log.Error("Failed to render chart", err, logger.Fields{"key": key})
		writeError(w, http.StatusInternalServerError, "render failed")
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(".png"))
	w.Header().Set("Cache-Control", "public, max-age=300")
	if err := canvas.Save(w); err != nil {
		s.log.Error("Failed to write chart", err, logger.Fields{"key": key})
	}
}

// HandleChartPreview serves an HTML page with the raster chart and its
// interactive counterpart side by side
func (s *Server) HandleChartPreview(w http.ResponseWriter, r *http.Request) {
	width, height, err := chartSize(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ds, ok := s.dataset(w, r)
	if !ok {
		return
	}
	key := mux.Vars(r)["key"]
	spec, found := ds.Lookup(key)
	if !found {
		writeError(w, http.StatusNotFound, "unknown chart "+strconv.Quote(key))
		return
	}

	page, err := s.buildPreview(key, spec, width, height)
	if err != nil {
		s.log.Error("Failed to build preview", err, logger.Fields{"key": key})
		writeError(w, http.StatusInternalServerError, "preview failed")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

// HandleHydrate scans the configured page and renders every placeholder
// to storage. Only one hydration runs at a time.
func (s *Server) HandleHydrate(w http.ResponseWriter, r *http.Request) {
	if !s.hydrateMutex.TryLock() {
		writeError(w, http.StatusConflict, "hydration already in progress")
		return
	}
	defer s.hydrateMutex.Unlock()

	f, err := os.Open(s.Config.PagePath)
	if err != nil {
		s.log.Error("Failed to open page", err, logger.Fields{"page": s.Config.PagePath})
		writeError(w, http.StatusInternalServerError, "page not readable")
		return
	}
	defer f.Close()

	placeholders, err := hydrate.ScanPlaceholders(f, s.Config.ChartAttr)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	rendered, err := s.Hydrator.Hydrate(r.Context(), s.Config.DataURL, placeholders)
	status := http.StatusOK
	response := map[string]interface{}{
		"placeholders": len(placeholders),
		"rendered":     rendered,
	}
	if err != nil {
		s.log.Error("Hydration finished with errors", err)
		status = http.StatusInternalServerError
		response["error"] = err.Error()
	}
	writeJSON(w, status, response)
}

// HandleFileProxy serves stored chart artifacts from local storage or GCS
func (s *Server) HandleFileProxy(w http.ResponseWriter, r *http.Request) {
	path, err := storage.CleanPath(mux.Vars(r)["path"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file path")
		return
	}

	data, err := s.Storage.GetFile(r.Context(), path)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if err != nil {
		s.log.Error("Failed to get file from storage", err, logger.Fields{"path": path})
		writeError(w, http.StatusInternalServerError, "storage error")
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(path))
	w.Write(data)
}

func chartSize(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	width, err := dimension(q.Get("width"), defaultChartWidth)
	if err != nil {
		return 0, 0, err
	}
	height, err := dimension(q.Get("height"), defaultChartHeight)
	if err != nil {
		return 0, 0, err
	}
	return width, height, nil
}

func dimension(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > maxChartSide {
		return 0, errors.New("size must be an integer between 1 and " + strconv.Itoa(maxChartSide))
	}
	return n, nil
}
