// Package http exposes the REST API: auth, income and expense collections,
// the dashboard summary and xlsx downloads.
package http

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type Server struct {
	http.Server

	cfg         *config.Config
	logger      *applog.Logger
	httpLog     *applog.HTTPLogger
	rateLimiter *rateLimiter

	store     storage.Store
	tokens    *auth.TokenManager
	entries   *services.EntryService
	dashboard *services.DashboardService

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(
	cfg *config.Config,
	logger *applog.Logger,
	store storage.Store,
	tokens *auth.TokenManager,
	entries *services.EntryService,
	dashboard *services.DashboardService,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    cfg.Addr(),
			Handler: mux,
		},
		cfg:         cfg,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		store:       store,
		tokens:      tokens,
		entries:     entries,
		dashboard:   dashboard,
	}
	s.httpLog = applog.NewHTTPLogger(s.logger)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/v1/auth/register", s.withCommon(s.handleRegister))
	mux.HandleFunc("POST /api/v1/auth/login", s.withCommon(s.handleLogin))
	mux.HandleFunc("GET /api/v1/auth/getUser", s.withAuth(s.handleGetUser))
	mux.HandleFunc("POST /api/v1/auth/upload-image", s.withAuth(s.handleUploadImage))

	for _, kind := range []core.Kind{core.KindIncome, core.KindExpense} {
		base := "/api/v1/" + string(kind)
		mux.HandleFunc("POST "+base, s.withAuth(s.handleCreateEntry(kind)))
		mux.HandleFunc("GET "+base, s.withAuth(s.handleListEntries(kind)))
		mux.HandleFunc("GET "+base+"/download", s.withAuth(s.handleDownloadEntries(kind)))
		mux.HandleFunc("DELETE "+base+"/{id}", s.withAuth(s.handleDeleteEntry(kind)))
	}

	mux.HandleFunc("GET /api/v1/dashboard", s.withAuth(s.handleDashboard))

	// Uploaded profile images are served straight from disk.
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.UploadDir))))

	return s
}

// Shutdown stops the rate limiter sweeper and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.GetUserByID(r.Context(), "readiness-probe"); err != nil && !errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
