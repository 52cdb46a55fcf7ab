package container

import (
	"context"
	"fmt"

	"gointegral/adapters/postgres"
	quadengine "gointegral/adapters/quadrature"
	"gointegral/app"
	"gointegral/internal"
	"gointegral/internal/config"
	"gointegral/internal/metrics"
	"gointegral/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Computation
	Engine     *quadengine.Engine
	Metrics    *metrics.Collector
	Comparison *app.ComparisonService

	// Infrastructure, present only when DATABASE_URL is set
	DB   *sqlx.DB
	Runs ports.RunRepository
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	var mc *quadengine.MonteCarlo
	if cfg.Integration.Seed != 0 {
		mc = quadengine.NewSeededMonteCarlo(cfg.Integration.Seed)
		logger.Debug("Monte Carlo seeded with %d", cfg.Integration.Seed)
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Engine:  quadengine.NewEngine(mc),
		Metrics: metrics.NewCollector(),
	}
	c.Comparison = app.NewComparisonService(c.Engine, c.Metrics, logger)

	return c, nil
}

// InitWithDatabase connects the run repository and creates its schema
func (c *Container) InitWithDatabase(ctx context.Context) error {
	if c.Config.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	db, err := postgres.Connect(ctx, c.Config.Database.URL)
	if err != nil {
		return err
	}

	repo := postgres.NewRunRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return err
	}

	c.DB = db
	c.Runs = repo
	c.Logger.Info("run repository ready")
	return nil
}

// Close releases held resources
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
