package model

// NutritionTargets is a snapshot of the user's current plan. A nil
// *NutritionTargets means the plan has not been generated yet; individual
// zero fields mean that target is unset.
type NutritionTargets struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"proteinG"`
	TDEE     float64 `json:"tdee,omitempty"`
}

// TargetKind names which plan field a resolution is asking for.
type TargetKind string

const (
	TargetProtein  TargetKind = "protein"
	TargetCalories TargetKind = "calories"
)

// TargetSource reports which tier of the resolution chain produced an
// effective target. Exposed in evaluation details so callers can tell a
// live personalized value from a frozen or default one.
type TargetSource string

const (
	SourceLivePlan TargetSource = "live_plan"
	SourceFrozen   TargetSource = "condition"
	SourceDefault  TargetSource = "default"
)
