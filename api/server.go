// Package api serves the journal and its analytics as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rustyeddy/tradejournal/internal/logger"
	"github.com/rustyeddy/tradejournal/internal/metrics"
	"github.com/rustyeddy/tradejournal/journal"
	"github.com/rustyeddy/tradejournal/report"
)

// OwnerHeader carries the owner id of every /api request.
const OwnerHeader = "X-Owner-ID"

const shutdownTimeout = 5 * time.Second

// Server handles HTTP API requests
type Server struct {
	store   journal.Store
	reports *report.Service
}

func NewServer(store journal.Store, reports *report.Service) *Server {
	return &Server{store: store, reports: reports}
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Trades
	mux.HandleFunc("GET /api/trades", s.withOwner(s.handleListTrades))
	mux.HandleFunc("POST /api/trades", s.withOwner(s.handleCreateTrade))
	mux.HandleFunc("POST /api/trades/preview", s.withOwner(s.handlePreviewPnl))
	mux.HandleFunc("GET /api/trades/{id}", s.withOwner(s.handleGetTrade))
	mux.HandleFunc("DELETE /api/trades/{id}", s.withOwner(s.handleDeleteTrade))

	// Account
	mux.HandleFunc("GET /api/account", s.withOwner(s.handleGetAccount))
	mux.HandleFunc("PUT /api/account", s.withOwner(s.handleUpdateAccount))

	// Analytics
	mux.HandleFunc("GET /api/analytics", s.withOwner(s.handleAnalytics))
	mux.HandleFunc("GET /api/dashboard", s.withOwner(s.handleDashboard))
	mux.HandleFunc("GET /api/calendar", s.withOwner(s.handleCalendar))
	mux.HandleFunc("GET /api/charts/{file}", s.withOwner(s.handleChart))

	return s.corsMiddleware(s.loggingMiddleware(mux))
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "api server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info(ctx, "api server stopped")
	return nil
}

type ownerHandlerFunc func(w http.ResponseWriter, r *http.Request, owner string)

// withOwner rejects requests without an owner id.
func (s *Server) withOwner(h ownerHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := r.Header.Get(OwnerHeader)
		if owner == "" {
			respondWithError(w, r, http.StatusUnauthorized, "missing "+OwnerHeader+" header", nil)
			return
		}
		h(w, r, owner)
	}
}

// Middleware
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+OwnerHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// The mux fills in Pattern while routing.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		logger.Debug(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
