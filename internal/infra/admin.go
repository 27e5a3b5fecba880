package infra

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ilearn/threadpool/internal/workerpool"
)

type PoolInspector interface {
	Stats() workerpool.Stats
	Closed() bool
}

type AdminServer struct {
	srv  *http.Server
	pool PoolInspector
}

func NewAdmin(addr string, pool PoolInspector) *AdminServer {
	router := chi.NewRouter()
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
	as := &AdminServer{
		srv:  server,
		pool: pool,
	}

	router.Get("/stats", as.handleStats)
	router.Get("/healthz", as.handleHealth)
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return as
}

func (a *AdminServer) Handler() http.Handler {
	return a.srv.Handler
}

func (a *AdminServer) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(a.pool.Stats()); err != nil {
		slog.Error("failed to encode pool stats", "error", err)
		http.Error(w, "encoding error", http.StatusInternalServerError)
	}
}

func (a *AdminServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.pool.Closed() {
		http.Error(w, "pool closed", http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("ok")); err != nil {
		slog.Warn("admin write failed", "error", err)
	}
}

func (a *AdminServer) Start() {
	go func() {
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("admin listen error", "error", err)
		}
	}()
}

func (a *AdminServer) Shutdown(ctx context.Context) {
	if err := a.srv.Shutdown(ctx); err != nil {
		slog.Warn("admin shutdown error", "error", err)
	}
}
