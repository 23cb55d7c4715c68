package testsupport

import (
	"fmt"
	"os"
	"testing"

	"polysentinel/internal/adapters/config"
)

// LoadRedisConfigFromEnv reads the Redis section for integration tests.
// Tests are skipped when REDIS_HOST is not set.
func LoadRedisConfigFromEnv(t *testing.T) config.RedisConfig {
	t.Helper()

	if os.Getenv("REDIS_HOST") == "" {
		t.Skipf("integration environment missing, set REDIS_HOST to run")
	}

	return config.RedisConfig{
		Host:        os.Getenv("REDIS_HOST"),
		Port:        intValue("REDIS_PORT", 6379),
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          intValue("REDIS_DB", 0),
		SnapshotKey: valueWithDefault("REDIS_SNAPSHOT_KEY", "polysentinel:test:state"),
	}
}

func valueWithDefault(key string, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func intValue(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		_, err := fmt.Sscanf(val, "%d", &parsed)
		if err == nil {
			return parsed
		}
	}

	return fallback
}
