package bootstrap

import (
	"context"
	"net/http"
	"sync"
	"time"

	redisclient "polysentinel/internal/adapters/redis"
	"polysentinel/pkg/errors"
	"polysentinel/pkg/logger"
)

const snapshotTimeout = 10 * time.Second

// Lifecycle manages graceful shutdown of components
type Lifecycle struct {
	shutdownTimeout time.Duration
}

// NewLifecycle creates a new lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownTimeout: 30 * time.Second,
	}
}

// Shutdown performs coordinated cleanup of all components in the correct order:
// 1. Metrics endpoint stops accepting scrapes
// 2. Background goroutines finish
// 3. Errors and logs are flushed
// 4. Redis closes last
// Any component may be nil.
func (l *Lifecycle) Shutdown(
	wg *sync.WaitGroup,
	metricsServer *http.Server,
	redisClient *redisclient.Client,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer shutdownCancel()

	// ========================================
	// Step 1: Stop Metrics Server (5s timeout)
	// ========================================
	log.Info("[1/5] Stopping metrics server...")
	if metricsServer != nil {
		httpCtx, httpCancel := context.WithTimeout(shutdownCtx, 5*time.Second)
		if err := metricsServer.Shutdown(httpCtx); err != nil {
			log.Errorw("Metrics server shutdown failed", "error", err)
		} else {
			log.Info("✓ Metrics server stopped")
		}
		httpCancel()
	}

	// ========================================
	// Step 2: Wait for Goroutines
	// ========================================
	log.Info("[2/5] Waiting for goroutines...")
	if wg != nil {
		l.waitForGoroutines(wg, 5*time.Second, log)
	}

	// ========================================
	// Step 3: Flush Error Tracker
	// ========================================
	log.Info("[3/5] Flushing error tracker...")
	l.flushErrorTracker(shutdownCtx, errorTracker, log)

	// ========================================
	// Step 4: Sync Logs
	// ========================================
	log.Info("[4/5] Syncing logs...")
	if err := logger.Sync(); err != nil {
		log.Warn("Log sync completed with warnings")
	} else {
		log.Info("✓ Logs synced")
	}

	// ========================================
	// Step 5: Close Redis
	// LAST - state is persisted before shutdown starts
	// ========================================
	log.Info("[5/5] Closing Redis...")
	l.closeRedis(redisClient, log)

	log.Info("✅ Graceful shutdown complete")
}

// waitForGoroutines waits for all goroutines with a timeout
func (l *Lifecycle) waitForGoroutines(wg *sync.WaitGroup, timeout time.Duration, log *logger.Logger) {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("✓ All goroutines finished")
	case <-time.After(timeout):
		log.Warnw("⚠ Some goroutines did not finish within timeout", "timeout", timeout)
	}
}

// flushErrorTracker flushes the error tracker (Sentry, etc.)
func (l *Lifecycle) flushErrorTracker(ctx context.Context, tracker errors.Tracker, log *logger.Logger) {
	if tracker == nil {
		return
	}

	flushCtx, flushCancel := context.WithTimeout(ctx, 3*time.Second)
	defer flushCancel()

	if err := tracker.Flush(flushCtx); err != nil {
		log.Errorw("Error tracker flush failed", "error", err)
	} else {
		log.Info("✓ Error tracker flushed")
	}
}

func (l *Lifecycle) closeRedis(redisClient *redisclient.Client, log *logger.Logger) {
	if redisClient == nil {
		return
	}

	if err := redisClient.Close(); err != nil {
		log.Errorw("Redis close failed", "error", err)
	} else {
		log.Info("✓ Redis connection closed")
	}
}
