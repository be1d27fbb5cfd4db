package mapview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"geonotes/greatcircle"
	"geonotes/metrics"
	"geonotes/osmextract"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// FeatureSource is anything that can list features in a bbox. *repos.Repo
// is one.
type FeatureSource interface {
	ListFeatures(ctx context.Context, bound orb.Bound) ([]*osmextract.Feature, error)
}

// TableSource serves an in-memory table.
type TableSource struct {
	Table *osmextract.Table
}

func (s TableSource) ListFeatures(_ context.Context, bound orb.Bound) ([]*osmextract.Feature, error) {
	var out []*osmextract.Feature
	for _, f := range s.Table.Features() {
		if !f.Drawable() {
			continue
		}
		if bound.Intersects(f.Geometry().Bound()) {
			out = append(out, f)
		}
	}
	return out, nil
}

var World = orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}}

type Server struct {
	Source FeatureSource
	Title  string
	Tiles  Tiles
	// Bound is used when a request has no bbox. Defaults to World.
	Bound orb.Bound
	// DevTemplate, if set, is re-read from disk on every request.
	DevTemplate string
}

// Mux serves the map page at /, the raw features at /features.geojson and
// prometheus metrics at /metrics. Templates are reloaded from disk when
// APP_ENV=development.
func Mux(source FeatureSource, tiles Tiles) http.Handler {
	s := &Server{Source: source, Tiles: tiles}
	if os.Getenv("APP_ENV") == "development" {
		s.DevTemplate = "mapview/" + templateName
	}
	return s.Handler()
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/features.geojson", s.featuresHandler)
	mux.Handle("/metrics", metrics.Handler())
	return timingMiddleware(mux)
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	fc, ok := s.collect(w, r)
	if !ok {
		return
	}

	tmpl := mapTemplate
	if s.DevTemplate != "" {
		slog.Debug("loading map template from disk", "path", s.DevTemplate)
		var err error
		tmpl, err = template.ParseFiles(s.DevTemplate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := render(w, tmpl, Page{Title: s.Title, Tiles: s.Tiles, Features: fc})
	if err != nil {
		slog.Error("render map", "err", err)
	}
}

func (s *Server) featuresHandler(w http.ResponseWriter, r *http.Request) {
	fc, ok := s.collect(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		slog.Error("encode features", "err", err)
	}
}

func (s *Server) collect(w http.ResponseWriter, r *http.Request) (*geojson.FeatureCollection, bool) {
	bound := s.Bound
	if bound.IsZero() {
		bound = World
	}
	if q := r.URL.Query().Get("bbox"); q != "" {
		var err error
		bound, err = greatcircle.ParseBound(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, false
		}
	}

	features, err := s.Source.ListFeatures(r.Context(), bound)
	if err != nil {
		slog.Error("list features", "err", err, "bound", bound)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}

	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f.GeoJSON())
	}
	return fc, true
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func timingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}
		next.ServeHTTP(sw, r)
		total := time.Since(start)
		if sw.status == 0 {
			sw.status = http.StatusOK
		}

		metrics.MapRequests.WithLabelValues(routeLabel(r.URL.Path), strconv.Itoa(sw.status)).Inc()
		slog.Debug("request", "method", r.Method, "path", r.URL.Path, "status", sw.status, "total", total)

		if sw.status == http.StatusOK && strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
			_, _ = fmt.Fprintf(w, "<!--timing:%s-->", total)
		}
	})
}

// routeLabel keeps the metric's cardinality bounded.
func routeLabel(path string) string {
	switch path {
	case "/", "/features.geojson", "/metrics":
		return path
	default:
		return "other"
	}
}

// Serve runs handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down map server")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("shut down map server", "err", err)
		}
	}()

	slog.Info("map server listening", "addr", addr)
	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
