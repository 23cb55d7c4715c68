package bootstrap

import (
	"context"
	"net/http"
	"sync"

	"polysentinel/internal/adapters/config"
	redisclient "polysentinel/internal/adapters/redis"
	correlationservice "polysentinel/internal/services/correlation"
	selectionservice "polysentinel/internal/services/selection"
	"polysentinel/pkg/errors"
	"polysentinel/pkg/logger"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure Layer (optional snapshot store)
	Redis *redisclient.Client

	// Domain Layer - Services
	Services *Services

	// Application Layer
	MetricsServer *http.Server

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Services groups the analysis engines
type Services struct {
	Selection   *selectionservice.Analyzer
	Correlation *correlationservice.Scorer
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Services:  &Services{},
		Lifecycle: NewLifecycle(),
		WG:        &sync.WaitGroup{},
		Context:   ctx,
		Cancel:    cancel,
	}
}

// MustInit initializes all components in the correct order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitServices()
	c.MustInitMetrics()
}

// Start restores persisted scorer state and starts the metrics endpoint
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	if err := c.restoreState(c.Context); err != nil {
		return err
	}

	if c.MetricsServer != nil {
		c.WG.Add(1)
		go func() {
			defer c.WG.Done()
			c.Log.Infow("✓ Metrics endpoint listening", "addr", c.MetricsServer.Addr)
			if err := c.MetricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				c.Log.Errorf("Metrics server failed: %v", err)
				c.Cancel()
			}
		}()
	}

	c.Log.Info("✓ All systems operational")
	return nil
}

// restoreState loads the last scorer snapshot; a missing snapshot is not an error
func (c *Container) restoreState(ctx context.Context) error {
	if c.Redis == nil {
		return nil
	}

	key := c.Config.Redis.SnapshotKey
	err := c.Services.Correlation.LoadSnapshot(ctx, c.Redis, key)
	switch {
	case err == nil:
		c.breadcrumb(ctx, "correlation state restored", key)
		c.Log.Infow("✓ Correlation state restored",
			"key", key,
			"signal_pairs", c.Services.Correlation.PairCount(),
		)
	case errors.Is(err, errors.ErrSnapshotNotFound):
		c.Log.Infow("No correlation snapshot found, starting fresh", "key", key)
	default:
		return errors.Wrap(err, "failed to restore correlation state")
	}
	return nil
}

// PersistState writes the scorer snapshot when Redis is configured
func (c *Container) PersistState(ctx context.Context) error {
	if c.Redis == nil {
		return nil
	}

	key := c.Config.Redis.SnapshotKey
	if err := c.Services.Correlation.SaveSnapshot(ctx, c.Redis, key, c.Config.Redis.SnapshotTTL); err != nil {
		return errors.Wrap(err, "failed to persist correlation state")
	}
	c.breadcrumb(ctx, "correlation state persisted", key)
	c.Log.Infow("✓ Correlation state persisted", "key", key)
	return nil
}

func (c *Container) breadcrumb(ctx context.Context, message, key string) {
	if c.ErrorTracker == nil {
		return
	}
	c.ErrorTracker.AddBreadcrumb(ctx, message, "state", errors.LevelInfo, map[string]interface{}{
		"key":          key,
		"signal_pairs": c.Services.Correlation.PairCount(),
	})
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	// Persist before the context is cancelled; Redis is still open
	persistCtx, persistCancel := context.WithTimeout(context.Background(), snapshotTimeout)
	if err := c.PersistState(persistCtx); err != nil {
		c.Log.Errorw("State persist failed", "error", err)
	}
	persistCancel()

	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.MetricsServer,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}

// GetMetrics returns engine state for observability
func (c *Container) GetMetrics() map[string]interface{} {
	return map[string]interface{}{
		"wallets":            c.Services.Selection.WalletCount(),
		"signal_pairs":       c.Services.Correlation.PairCount(),
		"effectiveness_rate": c.Services.Correlation.EffectivenessRate(),
	}
}
