package reconnect

import (
	"context"
	"sync"
	"time"

	"polysentinel/pkg/errors"
	"polysentinel/pkg/logger"
)

// Manager retries connection attempts with exponential backoff.
// Used for stores that may come up after the process (Redis).
type Manager struct {
	minBackoff        time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	maxRetries        int

	mu                  sync.Mutex
	currentBackoff      time.Duration
	consecutiveFailures int
	totalAttempts       int

	logger *logger.Logger
}

// Config configures the reconnect manager
type Config struct {
	MinBackoff        time.Duration // Initial backoff (e.g. 500ms)
	MaxBackoff        time.Duration // Max backoff (e.g. 10s)
	BackoffMultiplier float64       // Multiplier for exponential backoff (e.g. 2.0)
	MaxRetries        int           // Attempts after the first one; 0 means a single attempt
}

// NewManager creates a new reconnect manager with sensible defaults
func NewManager(config Config, log *logger.Logger) *Manager {
	if config.MinBackoff <= 0 {
		config.MinBackoff = 500 * time.Millisecond
	}
	if config.MaxBackoff < config.MinBackoff {
		config.MaxBackoff = 10 * time.Second
		if config.MaxBackoff < config.MinBackoff {
			config.MaxBackoff = config.MinBackoff
		}
	}
	if config.BackoffMultiplier < 1 {
		config.BackoffMultiplier = 2.0
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	return &Manager{
		minBackoff:        config.MinBackoff,
		maxBackoff:        config.MaxBackoff,
		backoffMultiplier: config.BackoffMultiplier,
		maxRetries:        config.MaxRetries,
		currentBackoff:    config.MinBackoff,
		logger:            log,
	}
}

// GetBackoff returns current backoff duration
func (m *Manager) GetBackoff() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentBackoff
}

// ShouldRetry reports whether another attempt is allowed
func (m *Manager) ShouldRetry() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.consecutiveFailures <= m.maxRetries
}

// RecordFailure records a failed attempt and grows the backoff
func (m *Manager) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.consecutiveFailures++
	m.totalAttempts++

	next := time.Duration(float64(m.currentBackoff) * m.backoffMultiplier)
	if next > m.maxBackoff {
		next = m.maxBackoff
	}
	m.currentBackoff = next
}

// RecordSuccess resets backoff and failure counter
func (m *Manager) RecordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.consecutiveFailures > 0 {
		m.logger.Infow("✅ Connected after retries",
			"failed_attempts", m.consecutiveFailures,
		)
	}

	m.currentBackoff = m.minBackoff
	m.consecutiveFailures = 0
	m.totalAttempts++
}

// GetStats returns current reconnect manager stats
func (m *Manager) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Stats{
		ConsecutiveFailures: m.consecutiveFailures,
		TotalAttempts:       m.totalAttempts,
		CurrentBackoff:      m.currentBackoff,
	}
}

// Stats contains reconnection statistics
type Stats struct {
	ConsecutiveFailures int
	TotalAttempts       int
	CurrentBackoff      time.Duration
}

// Connect runs connectFn until it succeeds, retries are exhausted or ctx is done.
// The last connect error is wrapped into the returned error.
func (m *Manager) Connect(ctx context.Context, connectFn func(context.Context) error) error {
	var lastErr error

	for m.ShouldRetry() {
		if lastErr != nil {
			backoff := m.GetBackoff()
			m.logger.Infow("⏳ Waiting before reconnect attempt",
				"backoff", backoff,
				"error", lastErr,
			)

			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return errors.Wrap(ctx.Err(), "connect cancelled")
			}
		}

		if err := connectFn(ctx); err != nil {
			lastErr = err
			m.RecordFailure()
			continue
		}

		m.RecordSuccess()
		return nil
	}

	m.mu.Lock()
	failures := m.consecutiveFailures
	m.mu.Unlock()

	return errors.Wrapf(lastErr, "giving up after %d attempts", failures)
}
