package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsTransientSQLiteErr(t *testing.T) {
	assert.False(t, isTransientSQLiteErr(nil))
	assert.False(t, isTransientSQLiteErr(errors.New("UNIQUE constraint failed")))
	assert.True(t, isTransientSQLiteErr(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, isTransientSQLiteErr(errors.New("database table is locked")))
}

func TestRetryOp_RetriesTransientThenSucceeds(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Microsecond, maxDelay: time.Millisecond}

	calls := 0
	err := retryOp(cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("SQLITE_BUSY")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryOp_PermanentErrorFailsFast(t *testing.T) {
	cfg := retryConfig{maxRetries: 3, baseDelay: time.Microsecond, maxDelay: time.Millisecond}

	calls := 0
	want := errors.New("syntax error")
	err := retryOp(cfg, func() error {
		calls++
		return want
	})
	assert.ErrorIs(t, err, want)
	assert.Equal(t, 1, calls)
}

func TestRetryOp_ExhaustsRetries(t *testing.T) {
	cfg := retryConfig{maxRetries: 2, baseDelay: time.Microsecond, maxDelay: time.Millisecond}

	calls := 0
	err := retryOp(cfg, func() error {
		calls++
		return errors.New("SQLITE_LOCKED")
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls) // initial attempt plus two retries
}

func TestBackoffDelay_Capped(t *testing.T) {
	cfg := retryConfig{maxRetries: 5, baseDelay: 50 * time.Millisecond, maxDelay: 200 * time.Millisecond}

	for attempt := 0; attempt < 6; attempt++ {
		d := backoffDelay(cfg, attempt)
		assert.LessOrEqual(t, d, cfg.maxDelay+cfg.baseDelay, "attempt %d", attempt)
		assert.GreaterOrEqual(t, d, cfg.baseDelay, "attempt %d", attempt)
	}
}
