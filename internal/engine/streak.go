package engine

import "time"

// maxStreakWalk bounds the backward walk when the caller imposes no
// required length, so a pathological record set cannot loop for years.
const maxStreakWalk = 3650

// ConsecutiveDays counts qualifying days walking backward from today.
// The walk increments while the current day appears in recordDays and stops
// at the first missing day, after requiredDays iterations, or before it
// would cross floorDay (days predating the stage unlock never count).
//
// A streak must include today to be active: if today has no record the
// result is 0 regardless of earlier history.
func ConsecutiveDays(recordDays map[string]bool, requiredDays int, floorDay string, now time.Time) int {
	limit := requiredDays
	if limit <= 0 || limit > maxStreakWalk {
		limit = maxStreakWalk
	}

	streak := 0
	for i := 0; i < limit; i++ {
		day := DayStringOffset(now, -i)
		if floorDay != "" && day < floorDay {
			break
		}
		if !recordDays[day] {
			break
		}
		streak++
	}
	return streak
}
