package engine

import "github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"

// ResolveTarget picks the effective numeric target for a condition.
//
// Priority, first present wins:
//  1. the user's live plan value, when greater than zero — personalization
//     is always-on, so a plan change retroactively updates every open task
//     referencing that kind (the condition's UseUserTarget flag is authored
//     intent and does not gate this tier);
//  2. the value frozen on the condition at authoring time;
//  3. the hard default (protein 120 g; calories by condition flavor).
//
// Resolution never fails: a missing plan simply falls through to the next
// tier, and the winning tier is returned so callers can surface it.
func ResolveTarget(d Defaults, kind model.TargetKind, cond model.TaskCondition, live *model.NutritionTargets) (float64, model.TargetSource) {
	if live != nil {
		var v float64
		switch kind {
		case model.TargetProtein:
			v = live.ProteinG
		case model.TargetCalories:
			v = live.Calories
		}
		if v > 0 {
			return v, model.SourceLivePlan
		}
	}
	if cond.Target > 0 {
		return cond.Target, model.SourceFrozen
	}
	if kind == model.TargetProtein {
		return d.ProteinG, model.SourceDefault
	}
	return d.defaultCalories(cond.Type), model.SourceDefault
}
