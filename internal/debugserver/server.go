package debugserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"afmdash/domain/feed"
	"afmdash/internal"
)

// ViewSource exposes the latest published view
type ViewSource interface {
	View() feed.View
}

// Server serves pprof under /debug and a raw view dump at /view on a
// separate port
type Server struct {
	router *chi.Mux
	srv    *http.Server
	logger *internal.Logger
}

// New builds the debug router; views may be nil
func New(port string, views ViewSource, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Mount("/debug", middleware.Profiler())
	if views != nil {
		r.Get("/view", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(views.View()); err != nil {
				logger.Warn("[Debug] encode view: %v", err)
			}
		})
	}

	return &Server{
		router: r,
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Debug] pprof listening on %s", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}
