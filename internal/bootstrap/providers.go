package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"polysentinel/internal/adapters/config"
	errnoop "polysentinel/internal/adapters/errors/noop"
	"polysentinel/internal/adapters/errors/sentry"
	redisclient "polysentinel/internal/adapters/redis"
	"polysentinel/internal/domain/correlation"
	"polysentinel/internal/metrics"
	correlationservice "polysentinel/internal/services/correlation"
	selectionservice "polysentinel/internal/services/selection"
	"polysentinel/pkg/cache"
	"polysentinel/pkg/errors"
	"polysentinel/pkg/logger"
	"polysentinel/pkg/reconnect"
)

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects optional data stores (Redis)
func (c *Container) MustInitInfrastructure() {
	if !c.Config.Redis.Enabled() {
		c.Log.Info("Redis not configured, correlation state will not persist")
		return
	}

	c.Log.Info("Connecting to Redis...")
	mgr := reconnect.NewManager(reconnect.Config{
		MinBackoff: c.Config.Redis.ConnectBackoff,
		MaxRetries: c.Config.Redis.ConnectRetries,
	}, c.Log)

	err := mgr.Connect(c.Context, func(context.Context) error {
		client, err := redisclient.NewClient(c.Config.Redis)
		if err != nil {
			return err
		}
		c.Redis = client
		return nil
	})
	if err != nil {
		c.Log.Fatalf("failed to connect redis: %v", err)
	}
	c.Log.Infow("✓ Redis connected", "addr", c.Config.Redis.Addr())
}

// ========================================
// Phase 3: Domain Layer - Services
// ========================================

// MustInitServices builds the selection analyzer and correlation scorer
func (c *Container) MustInitServices() {
	var err error

	c.Services.Selection, err = selectionservice.NewAnalyzer(provideSelectionConfig(c.Config), c.Log)
	if err != nil {
		c.Log.Fatalf("failed to create selection analyzer: %v", err)
	}

	c.Services.Correlation, err = correlationservice.NewScorer(provideCorrelationConfig(c.Config), c.Log)
	if err != nil {
		c.Log.Fatalf("failed to create correlation scorer: %v", err)
	}

	c.Log.Infow("✓ Services initialized",
		"signal_pairs", c.Services.Correlation.PairCount(),
		"batch_concurrency", c.Config.Batch.Concurrency,
	)
}

// ========================================
// Phase 4: Application Layer
// ========================================

// MustInitMetrics registers collectors and prepares the scrape endpoint
func (c *Container) MustInitMetrics() {
	metrics.Init()
	prometheus.MustRegister(metrics.NewEngineCollector(c.Services.Selection, c.Services.Correlation))

	if c.Config.Metrics.Addr == "" {
		c.Log.Info("Metrics endpoint disabled")
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	c.MetricsServer = &http.Server{
		Addr:              c.Config.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// ========================================
// Helper Functions
// ========================================

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Name)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("✓ Error tracking initialized (Sentry)")
	return tracker
}

func provideCacheConfig(size int, ttl time.Duration) cache.Config {
	return cache.Config{
		Enabled:    size > 0,
		MaxEntries: size,
		TTL:        ttl,
	}
}

// provideSelectionConfig overlays env settings on analyzer defaults
func provideSelectionConfig(cfg *config.Config) selectionservice.Config {
	sc := selectionservice.DefaultConfig()
	src := cfg.Selection

	sc.MinTrades = src.MinTrades
	sc.SpecialistShare = src.SpecialistShare
	sc.HighVolumeUSD = decimal.NewFromFloat(src.HighVolumeUSD)
	sc.LowVolumeUSD = decimal.NewFromFloat(src.LowVolumeUSD)
	sc.EventDrivenShare = src.EventDrivenShare
	sc.HighWinRate = src.HighWinRate
	sc.NearResolutionWindow = src.NearResolutionWindow
	sc.NearResolutionShare = src.NearResolutionShare
	sc.WinBiasDelta = src.WinBiasDelta
	sc.ConcentrationDelta = src.ConcentrationDelta
	sc.SuspiciousThreshold = src.SuspiciousThreshold
	sc.MaxFutureSkew = src.MaxFutureSkew
	sc.LargePositionUSD = decimal.NewFromFloat(src.LargePositionUSD)
	sc.BatchConcurrency = cfg.Batch.Concurrency
	sc.Cache = provideCacheConfig(src.CacheSize, src.CacheTTL)

	return sc
}

// provideCorrelationConfig overlays env settings on scorer defaults
func provideCorrelationConfig(cfg *config.Config) correlationservice.Config {
	cc := correlationservice.DefaultConfig()
	src := cfg.Correlation

	cc.MaxBoost = src.MaxBoost
	cc.MinCorrelationStrength = src.MinStrength
	cc.DuplicatePolicy = correlation.DuplicatePolicy(src.DuplicatePolicy)
	cc.ImpactLowCut = src.ImpactLowCut
	cc.ImpactMediumCut = src.ImpactMediumCut
	cc.MaxEffectivenessRecords = src.MaxEffectivenessRecords
	cc.BatchConcurrency = cfg.Batch.Concurrency
	cc.Cache = provideCacheConfig(src.CacheSize, src.CacheTTL)

	return cc
}
