package reconnect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysentinel/pkg/logger"
)

func TestNewManagerDefaults(t *testing.T) {
	tests := []struct {
		name         string
		config       Config
		expectedMin  time.Duration
		expectedMax  time.Duration
		expectedMult float64
	}{
		{
			name:         "zero config",
			config:       Config{},
			expectedMin:  500 * time.Millisecond,
			expectedMax:  10 * time.Second,
			expectedMult: 2.0,
		},
		{
			name:         "custom",
			config:       Config{MinBackoff: time.Second, MaxBackoff: time.Minute, BackoffMultiplier: 3},
			expectedMin:  time.Second,
			expectedMax:  time.Minute,
			expectedMult: 3,
		},
		{
			name:         "max below min",
			config:       Config{MinBackoff: 30 * time.Second, MaxBackoff: time.Second},
			expectedMin:  30 * time.Second,
			expectedMax:  30 * time.Second,
			expectedMult: 2.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.config, logger.Nop())
			assert.Equal(t, tt.expectedMin, m.minBackoff)
			assert.Equal(t, tt.expectedMax, m.maxBackoff)
			assert.Equal(t, tt.expectedMult, m.backoffMultiplier)
			assert.Equal(t, tt.expectedMin, m.GetBackoff())
		})
	}
}

func TestBackoffGrowsAndCaps(t *testing.T) {
	m := NewManager(Config{MinBackoff: time.Second, MaxBackoff: 3 * time.Second, MaxRetries: 5}, logger.Nop())

	m.RecordFailure()
	assert.Equal(t, 2*time.Second, m.GetBackoff())
	m.RecordFailure()
	assert.Equal(t, 3*time.Second, m.GetBackoff())

	m.RecordSuccess()
	stats := m.GetStats()
	assert.Equal(t, time.Second, stats.CurrentBackoff)
	assert.Equal(t, 0, stats.ConsecutiveFailures)
	assert.Equal(t, 3, stats.TotalAttempts)
}

func TestConnectRetriesUntilSuccess(t *testing.T) {
	m := NewManager(Config{MinBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond, MaxRetries: 3}, logger.Nop())

	calls := 0
	err := m.Connect(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, m.GetStats().ConsecutiveFailures)
}

func TestConnectGivesUp(t *testing.T) {
	m := NewManager(Config{MinBackoff: time.Millisecond, MaxRetries: 2}, logger.Nop())

	calls := 0
	err := m.Connect(context.Background(), func(context.Context) error {
		calls++
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 3, calls)
}

func TestConnectSingleAttempt(t *testing.T) {
	m := NewManager(Config{}, logger.Nop())

	calls := 0
	err := m.Connect(context.Background(), func(context.Context) error {
		calls++
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestConnectRespectsContext(t *testing.T) {
	m := NewManager(Config{MinBackoff: time.Hour, MaxRetries: 5}, logger.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := m.Connect(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}
