// Package server exposes the training log over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/faizmokh/angkat/internal/tracker"
)

const shutdownTimeout = 15 * time.Second

// Server routes HTTP requests to a Tracker.
type Server struct {
	tracker      *tracker.Tracker
	promRegistry *prometheus.Registry
	metrics      *Metrics
	router       *mux.Router
}

// New builds a server with its own metrics registry.
func New(tr *tracker.Tracker) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		tracker:      tr,
		promRegistry: reg,
		metrics:      NewMetrics("angkat", "server", reg),
	}
	s.router = s.routerSetup()
	return s
}

// Handler returns the request router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	// Exercise names may contain '/', which clients send as %2F.
	r.UseEncodedPath()

	h := &handler{tracker: s.tracker, metrics: s.metrics}
	r.HandleFunc("/api/schedule", h.handleSchedule).Methods("GET").Name("schedule")
	r.HandleFunc("/api/exercises", h.handleExercises).Methods("GET").Name("exercises")
	r.HandleFunc("/api/logs", h.handleLogs).Methods("GET").Name("logs")
	r.HandleFunc("/api/logs/{day}/{exercise}/{set}/{field}", h.handleUpdateSet).Methods("PUT").Name("update-set")
	r.HandleFunc("/api/chart", h.handleChart).Methods("GET").Name("chart")
	r.HandleFunc("/api/preferences", h.handleGetPreferences).Methods("GET").Name("get-preferences")
	r.HandleFunc("/api/preferences", h.handleSetPreferences).Methods("PUT").Name("set-preferences")
	r.HandleFunc("/training_log.csv", h.handleExport).Methods("GET").Name("export")
	r.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{})).Methods("GET").Name("metrics")

	r.Use(logRequest())
	r.Use(requestMetrics(s.metrics))

	return r
}

// Serve handles requests on listener until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof(" > server listening on: [%s]", listener.Addr())
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Debug("graceful shutdown initiated ...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	log.Warnln("server shut down")
	return nil
}
