package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsecutiveDays_CountsBackwardFromToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	days := map[string]bool{
		"2026-03-10": true,
		"2026-03-09": true,
		// 2026-03-08 missing
		"2026-03-07": true,
	}

	assert.Equal(t, 2, ConsecutiveDays(days, 7, "", now))
}

func TestConsecutiveDays_ZeroWhenTodayMissing(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	days := map[string]bool{
		"2026-03-09": true,
		"2026-03-08": true,
		"2026-03-07": true,
	}

	assert.Equal(t, 0, ConsecutiveDays(days, 7, "", now))
}

func TestConsecutiveDays_FlooredAtStageUnlock(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	// Records stretch back well past the floor.
	days := map[string]bool{
		"2026-03-10": true,
		"2026-03-09": true,
		"2026-03-08": true,
		"2026-03-07": true,
		"2026-03-06": true,
	}

	assert.Equal(t, 2, ConsecutiveDays(days, 7, "2026-03-09", now))
	assert.Equal(t, 5, ConsecutiveDays(days, 7, "", now))
}

func TestConsecutiveDays_CapsAtRequired(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	days := map[string]bool{}
	for i := 0; i < 30; i++ {
		days[DayStringOffset(now, -i)] = true
	}

	assert.Equal(t, 7, ConsecutiveDays(days, 7, "", now))
}

func TestConsecutiveDays_UnboundedWalkIsLimited(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	days := map[string]bool{"2026-03-10": true, "2026-03-09": true}

	// requiredDays <= 0 falls back to the walk cap, not an infinite loop.
	assert.Equal(t, 2, ConsecutiveDays(days, 0, "", now))
}
