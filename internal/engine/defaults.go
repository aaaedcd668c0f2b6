package engine

import "github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"

// Defaults are the hard fallback values the engine uses when neither the
// user's live plan nor the condition itself provides a number. The zero
// value normalizes to the shipped constants; config may override individual
// fields.
type Defaults struct {
	ProteinG         float64 `yaml:"protein_g"`
	CaloriesDeficit  float64 `yaml:"calories_deficit"`
	CaloriesSurplus  float64 `yaml:"calories_surplus"`
	CaloriesBalanced float64 `yaml:"calories_balanced"`
	MealsPerDay      float64 `yaml:"meals_per_day"`
	StreakDays       float64 `yaml:"streak_days"`
	LookbackDays     int     `yaml:"lookback_days"`
	BufferKcal       float64 `yaml:"buffer_kcal"`
	BufferBalanced   float64 `yaml:"buffer_balanced_kcal"`
}

func (d *Defaults) ApplyDefaults() {
	if d.ProteinG <= 0 {
		d.ProteinG = 120
	}
	if d.CaloriesDeficit <= 0 {
		d.CaloriesDeficit = 2000
	}
	if d.CaloriesSurplus <= 0 {
		d.CaloriesSurplus = 2200
	}
	if d.CaloriesBalanced <= 0 {
		d.CaloriesBalanced = 2500
	}
	if d.MealsPerDay <= 0 {
		d.MealsPerDay = 3
	}
	if d.StreakDays <= 0 {
		d.StreakDays = 7
	}
	if d.LookbackDays <= 0 {
		d.LookbackDays = 7
	}
	if d.BufferKcal <= 0 {
		d.BufferKcal = 100
	}
	if d.BufferBalanced <= 0 {
		d.BufferBalanced = 200
	}
}

// defaultCalories picks the flavor-specific calorie fallback for a weekly
// condition type. Non-weekly callers get the deficit figure.
func (d Defaults) defaultCalories(t model.ConditionType) float64 {
	switch t {
	case model.CondWeeklySurplus:
		return d.CaloriesSurplus
	case model.CondWeeklyBalanced:
		return d.CaloriesBalanced
	default:
		return d.CaloriesDeficit
	}
}

// buffer is the tolerance band half-width for a weekly condition. The band
// width is condition-configurable: a positive condition target overrides
// the flavor default.
func (d Defaults) buffer(cond model.TaskCondition) float64 {
	if cond.Target > 0 {
		return cond.Target
	}
	if cond.Type == model.CondWeeklyBalanced {
		return d.BufferBalanced
	}
	return d.BufferKcal
}

// lookback normalizes a condition's window length; a degenerate value
// (zero or negative) means the type default, never a division by zero.
func (d Defaults) lookback(cond model.TaskCondition) int {
	if cond.LookbackDays > 0 {
		return cond.LookbackDays
	}
	return d.LookbackDays
}
