package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	corslib "github.com/rs/cors"

	"github.com/albapepper/playerdata/internal/logging"
)

// NewRouter creates the router serving /metrics and /healthz. Browser
// dashboards on allowedOrigins may read both endpoints.
func NewRouter(rec *Recorder, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(timingMiddleware)

	if len(allowedOrigins) > 0 {
		c := corslib.New(corslib.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
			ExposedHeaders: []string{"X-Process-Time"},
		})
		r.Use(c.Handler)
	}

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(rec.Registry(), promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		writeJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"progress":  rec.Snapshot(),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	return r
}

// timingMiddleware adds an X-Process-Time header to all responses.
func timingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		tw := &timedWriter{ResponseWriter: w, start: start}
		next.ServeHTTP(tw, r)
	})
}

// timedWriter stamps the elapsed time just before the header is sent.
type timedWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
}

func (w *timedWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		elapsed := time.Since(w.start)
		w.Header().Set("X-Process-Time", fmt.Sprintf("%.2fms", float64(elapsed.Microseconds())/1000.0))
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// writeJSONObject marshals v and writes it with the given status.
func writeJSONObject(w http.ResponseWriter, status int, v interface{}) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// Server serves the metrics router in the background for the lifetime of a
// collection run.
type Server struct {
	srv    *http.Server
	logger *logging.Logger
}

// NewServer creates a metrics server listening on addr.
func NewServer(addr string, rec *Recorder, allowedOrigins []string, logger *logging.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(rec, allowedOrigins),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start listens in a background goroutine. Listen failures are logged; a
// collection run does not depend on its metrics endpoint.
func (s *Server) Start() {
	go func() {
		s.logger.Info("Starting metrics server", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Metrics server failed", "error", err)
		}
	}()
}

// Shutdown stops the server, waiting up to 5 seconds for open requests.
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Metrics server shutdown error", "error", err)
	}
}
