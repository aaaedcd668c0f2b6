package engine

import (
	"time"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/activity"
)

// DailyCalorieTotals buckets meal entries by UTC calendar day and sums each
// bucket's calories. The window is the trailing lookbackDays days ending at
// (and including) today; anything strictly older is excluded. Days with no
// entries have no key — downstream treats them as zero.
//
// For a fixed record set and a fixed now the output is identical regardless
// of input order: buckets are summed, never overwritten.
func DailyCalorieTotals(meals []activity.Meal, lookbackDays int, now time.Time) map[string]float64 {
	if lookbackDays <= 0 {
		return map[string]float64{}
	}
	start := DayStringOffset(now, -(lookbackDays - 1))
	today := DayString(now)

	totals := make(map[string]float64, lookbackDays)
	for _, m := range meals {
		if m.Date < start || m.Date > today {
			continue
		}
		totals[m.Date] += m.Calories
	}
	return totals
}

// DailyProteinTotal sums protein over the given meals. Callers that need a
// single day's figure pass the already-filtered slice.
func DailyProteinTotal(meals []activity.Meal) float64 {
	var sum float64
	for _, m := range meals {
		sum += m.ProteinG
	}
	return sum
}

// WindowDays enumerates the day strings of the trailing window, oldest
// first. Used by the weekly strategies to walk every day, present or not.
func WindowDays(lookbackDays int, now time.Time) []string {
	if lookbackDays <= 0 {
		return nil
	}
	days := make([]string, 0, lookbackDays)
	for i := lookbackDays - 1; i >= 0; i-- {
		days = append(days, DayStringOffset(now, -i))
	}
	return days
}
