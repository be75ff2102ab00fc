package container

import (
	"context"
	"fmt"

	"afmdash/adapters/backend/rest"
	"afmdash/adapters/backend/ws"
	"afmdash/adapters/excel"
	"afmdash/adapters/sqlstore"
	"afmdash/app"
	"afmdash/domain/analysis"
	"afmdash/internal"
	"afmdash/internal/api"
	"afmdash/internal/config"
	"afmdash/internal/migration"
	"afmdash/internal/session"
	"afmdash/internal/store"
	"afmdash/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB      *sqlx.DB
	Backend ports.BackendAPI
	Dialer  ports.Dialer

	// Streaming core
	Store      *store.AnalysisStore
	Controller *session.Controller
	SSEHub     *api.SSEHub

	stopStateEvents func()

	// Application services
	Imports    *app.ImportService
	Exports    *app.ExportService
	Parameters *app.ParameterService
	Presets    *app.PresetService
}

// New creates a new dependency injection container. It does not touch the
// network; call Start to open the first session.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	initial := analysis.DefaultState()
	if cfg.Presets.File != "" {
		p, err := config.LoadPresetFile(cfg.Presets.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis preset: %w", err)
		}
		p.ApplyTo(&initial)
		logger.Info("Seeded analysis state from preset %q", p.Name)
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Backend: rest.NewClient(cfg.Backend.HTTPBaseURL(), rest.WithRateLimit(cfg.Backend.RateLimit)),
		Dialer:  ws.NewDialer(cfg.Session.DialTimeout),
		Store:   store.New(initial),
	}
	c.initCore()
	c.initServices(nil)
	return c, nil
}

func (c *Container) initCore() {
	c.Controller = session.NewController(session.Config{
		URL:            c.Config.Backend.WebSocketURL,
		LoadingTimeout: c.Config.Session.LoadingTimeout,
		DialTimeout:    c.Config.Session.DialTimeout,
	}, c.Store, c.Dialer, c.Logger)

	c.SSEHub = api.NewSSEHub(c.Logger)
	c.Controller.Subscribe(api.NewSSEViewBroadcaster(c.SSEHub))
	c.SSEHub.BroadcastState(0, c.Store.Snapshot())
	c.stopStateEvents = c.Store.OnChange(c.SSEHub.BroadcastState)
}

func (c *Container) initServices(presets ports.PresetRepository) {
	c.Imports = app.NewImportService(c.Backend, c.Store, c.Controller, c.Logger)
	c.Exports = app.NewExportService(c.Backend, c.Store, c.Logger)
	c.Parameters = app.NewParameterService(c.Controller, excel.NewWorkbookWriter(), c.Backend, c.Store)
	c.Presets = app.NewPresetService(presets, c.Store)
}

// InitWithDatabase connects DATABASE_URL, migrates it and enables presets.
// It is a no-op when no database is configured.
func (c *Container) InitWithDatabase(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("DATABASE_URL not set, preset persistence disabled")
		return nil
	}

	db, err := sqlstore.Open(ctx, c.Config.Database.URL)
	if err != nil {
		return err
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	c.DB = db
	c.Presets = app.NewPresetService(sqlstore.NewPresetRepository(db), c.Store)
	c.Logger.Info("Preset persistence enabled (%s)", db.DriverName())
	return nil
}

// Start opens the first curve session
func (c *Container) Start() {
	c.Controller.Connect()
}

// Shutdown closes the session, abandoning any in-flight request, and
// releases infrastructure
func (c *Container) Shutdown(ctx context.Context) error {
	c.stopStateEvents()
	c.Controller.Shutdown()
	c.SSEHub.Close()

	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
