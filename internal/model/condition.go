package model

// ConditionType selects the evaluation strategy for a task condition.
type ConditionType string

const (
	CondFirstWeighIn     ConditionType = "FIRST_WEIGH_IN"
	CondLogMealsToday    ConditionType = "LOG_MEALS_TODAY"
	CondHitProteinGoal   ConditionType = "HIT_PROTEIN_GOAL"
	CondStreakDays       ConditionType = "STREAK_DAYS"
	CondWeeklyDeficit    ConditionType = "WEEKLY_DEFICIT"
	CondWeeklySurplus    ConditionType = "WEEKLY_SURPLUS"
	CondWeeklyBalanced   ConditionType = "WEEKLY_BALANCED"
	CondTotalMealsLogged ConditionType = "TOTAL_MEALS_LOGGED"
	CondTotalWeighIns    ConditionType = "TOTAL_WEIGH_INS"
)

// TaskCondition is the immutable rule attached to a journey task at
// authoring time. Target's meaning depends on Type: a count for meal/streak
// conditions, grams for protein, the tolerance band half-width (kcal) for
// the weekly window conditions.
type TaskCondition struct {
	Type         ConditionType `json:"type" yaml:"type"`
	Target       float64       `json:"target,omitempty" yaml:"target,omitempty"`
	Operator     string        `json:"operator,omitempty" yaml:"operator,omitempty"`
	LookbackDays int           `json:"lookbackDays,omitempty" yaml:"lookback_days,omitempty"`

	// UseUserTarget is authored intent that resolution should prefer the
	// user's live plan. Resolution is always-on regardless (see
	// engine.ResolveTarget); the flag is kept as data and echoed in
	// evaluation details.
	UseUserTarget bool `json:"useUserTarget,omitempty" yaml:"use_user_target,omitempty"`
}
