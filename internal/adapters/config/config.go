package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"polysentinel/pkg/errors"
)

type Config struct {
	App           AppConfig
	Selection     SelectionConfig
	Correlation   CorrelationConfig
	Batch         BatchConfig
	Redis         RedisConfig
	Metrics       MetricsConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"polysentinel"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// SelectionConfig tunes the market selection analyzer
type SelectionConfig struct {
	MinTrades            int           `envconfig:"SELECTION_MIN_TRADES" default:"5"`
	SpecialistShare      float64       `envconfig:"SELECTION_SPECIALIST_SHARE" default:"0.8"`
	HighVolumeUSD        float64       `envconfig:"SELECTION_HIGH_VOLUME_USD" default:"1000000"`
	LowVolumeUSD         float64       `envconfig:"SELECTION_LOW_VOLUME_USD" default:"50000"`
	EventDrivenShare     float64       `envconfig:"SELECTION_EVENT_DRIVEN_SHARE" default:"0.5"`
	HighWinRate          float64       `envconfig:"SELECTION_HIGH_WIN_RATE" default:"0.9"`
	NearResolutionWindow time.Duration `envconfig:"SELECTION_NEAR_RESOLUTION_WINDOW" default:"24h"`
	NearResolutionShare  float64       `envconfig:"SELECTION_NEAR_RESOLUTION_SHARE" default:"0.5"`
	WinBiasDelta         float64       `envconfig:"SELECTION_WIN_BIAS_DELTA" default:"0.2"`
	ConcentrationDelta   float64       `envconfig:"SELECTION_CONCENTRATION_DELTA" default:"0.2"`
	SuspiciousThreshold  float64       `envconfig:"SELECTION_SUSPICIOUS_THRESHOLD" default:"50"`
	MaxFutureSkew        time.Duration `envconfig:"SELECTION_MAX_FUTURE_SKEW" default:"5m"`
	LargePositionUSD     float64       `envconfig:"SELECTION_LARGE_POSITION_USD" default:"5000"`
	CacheSize            int           `envconfig:"SELECTION_CACHE_SIZE" default:"1000"`
	CacheTTL             time.Duration `envconfig:"SELECTION_CACHE_TTL" default:"10m"`
}

// CorrelationConfig tunes the correlation scorer
type CorrelationConfig struct {
	MaxBoost                float64       `envconfig:"CORRELATION_MAX_BOOST" default:"25"`
	MinStrength             float64       `envconfig:"CORRELATION_MIN_STRENGTH" default:"70"`
	DuplicatePolicy         string        `envconfig:"CORRELATION_DUPLICATE_POLICY" default:"stack"`
	ImpactLowCut            float64       `envconfig:"CORRELATION_IMPACT_LOW_CUT" default:"5"`
	ImpactMediumCut         float64       `envconfig:"CORRELATION_IMPACT_MEDIUM_CUT" default:"15"`
	CacheSize               int           `envconfig:"CORRELATION_CACHE_SIZE" default:"1000"`
	CacheTTL                time.Duration `envconfig:"CORRELATION_CACHE_TTL" default:"10m"`
	MaxEffectivenessRecords int           `envconfig:"CORRELATION_MAX_EFFECTIVENESS_RECORDS" default:"10000"`
}

type BatchConfig struct {
	Concurrency int `envconfig:"BATCH_CONCURRENCY" default:"8"`
}

// RedisConfig is optional; an empty host disables snapshot persistence
type RedisConfig struct {
	Host        string        `envconfig:"REDIS_HOST"`
	Port        int           `envconfig:"REDIS_PORT" default:"6379"`
	Password    string        `envconfig:"REDIS_PASSWORD"`
	DB          int           `envconfig:"REDIS_DB" default:"0"`
	SnapshotKey string        `envconfig:"REDIS_SNAPSHOT_KEY" default:"polysentinel:correlation:state"`
	SnapshotTTL time.Duration `envconfig:"REDIS_SNAPSHOT_TTL" default:"0s"`

	ConnectRetries int           `envconfig:"REDIS_CONNECT_RETRIES" default:"3"`
	ConnectBackoff time.Duration `envconfig:"REDIS_CONNECT_BACKOFF" default:"500ms"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Enabled reports whether a Redis host is configured
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type MetricsConfig struct {
	Addr string `envconfig:"METRICS_ADDR"` // empty disables the HTTP endpoint
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
