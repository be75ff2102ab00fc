package ui

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"afmdash/app"
	"afmdash/domain/feed"
	"afmdash/internal"
	"afmdash/internal/store"
)

// CurveSession is the streaming core as seen by HTTP handlers
type CurveSession interface {
	View() feed.View
	SendCurveRequest() error
	ResetAndReload()
}

// Deps are the collaborators the server routes to
type Deps struct {
	Store      *store.AnalysisStore
	Session    CurveSession
	Events     gin.HandlerFunc
	Imports    *app.ImportService
	Exports    *app.ExportService
	Parameters *app.ParameterService
	Presets    *app.PresetService
}

// Server is the dashboard's HTTP API
type Server struct {
	router *gin.Engine
	deps   Deps
	logger *internal.Logger
}

// NewServer builds the router; mode is a gin mode such as "release"
func NewServer(deps Deps, mode string, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if mode != "" {
		gin.SetMode(mode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	if logger.GetLevel() >= internal.LogLevelDebug {
		router.Use(gin.Logger())
	}

	s := &Server{router: router, deps: deps, logger: logger}
	s.setupRoutes()
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/charts", s.handleCharts)

	api := s.router.Group("/api")
	{
		api.GET("/state", s.handleGetState)
		api.POST("/state/reset", s.handleResetState)
		api.PUT("/filters", s.handlePutFilters)
		api.PUT("/params", s.handlePutParams)
		api.PUT("/num-curves", s.handlePutNumCurves)
		api.PUT("/selection", s.handlePutSelection)
		api.PUT("/zero-force", s.handlePutZeroForce)

		api.POST("/request", s.handleSendRequest)
		api.POST("/reload", s.handleReload)
		api.GET("/view", s.handleView)
		api.GET("/curves/:family", s.handleCurves)
		if s.deps.Events != nil {
			api.GET("/events", s.deps.Events)
		}

		api.POST("/import", s.handleImportLoad)
		api.POST("/import/process", s.handleImportProcess)
		api.POST("/export/:format", s.handleExport)
		api.POST("/softmech-metadata", s.handleSoftmechMetadata)

		api.GET("/parameters/summary", s.handleParameterSummary)
		api.GET("/parameters.xlsx", s.handleParameterWorkbook)

		api.GET("/presets", s.handleListPresets)
		api.POST("/presets/:name", s.handleSavePreset)
		api.POST("/presets/:name/apply", s.handleApplyPreset)
		api.DELETE("/presets/:name", s.handleDeletePreset)
	}
}

// Run serves on addr until ctx is cancelled, then drains for up to 10s
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[HTTP] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("[HTTP] shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	v := s.deps.Session.View()
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"backend": v.Status,
		"version": v.Version,
	})
}
