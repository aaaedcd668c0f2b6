package engine

import (
	"context"
	"fmt"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
)

// strategyFunc evaluates one condition variant. Strategies return query
// errors to the evaluator, which converts them into the safe
// not-completable default; they never panic and never return NaN progress.
type strategyFunc func(ctx context.Context, e *Evaluator, in EvalInput) (model.TaskEvaluation, error)

// strategies is the closed variant table. Adding a condition type is a pure
// addition here; unknown types are handled by the evaluator, not by any
// strategy.
var strategies = map[model.ConditionType]strategyFunc{
	model.CondFirstWeighIn:     evalFirstWeighIn,
	model.CondLogMealsToday:    evalLogMealsToday,
	model.CondHitProteinGoal:   evalHitProteinGoal,
	model.CondStreakDays:       evalStreakDays,
	model.CondWeeklyDeficit:    evalWeeklyWindow,
	model.CondWeeklySurplus:    evalWeeklyWindow,
	model.CondWeeklyBalanced:   evalWeeklyWindow,
	model.CondTotalMealsLogged: evalTotalMeals,
	model.CondTotalWeighIns:    evalTotalWeighIns,
}

func evalFirstWeighIn(ctx context.Context, e *Evaluator, in EvalInput) (model.TaskEvaluation, error) {
	has, err := e.Activity.HasWeighIn(ctx, in.UserID)
	if err != nil {
		return model.TaskEvaluation{}, fmt.Errorf("first weigh-in lookup: %w", err)
	}
	current := 0.0
	if has {
		current = 1.0
	}
	return model.TaskEvaluation{
		CanComplete: has,
		Progress:    current,
		Current:     current,
		Target:      1,
	}, nil
}

func evalLogMealsToday(ctx context.Context, e *Evaluator, in EvalInput) (model.TaskEvaluation, error) {
	today := DayString(e.Clock.Now())
	meals, err := e.Activity.MealsOn(ctx, in.UserID, today)
	if err != nil {
		return model.TaskEvaluation{}, fmt.Errorf("meals for %s: %w", today, err)
	}

	target := in.Condition.Target
	if target <= 0 {
		target = e.Defaults.MealsPerDay
	}
	current := float64(len(meals))

	return model.TaskEvaluation{
		CanComplete: current >= target,
		Progress:    model.ClampProgress(current / target),
		Current:     current,
		Target:      target,
		Details:     fmt.Sprintf("%.0f of %.0f meals logged today", current, target),
	}, nil
}

func evalHitProteinGoal(ctx context.Context, e *Evaluator, in EvalInput) (model.TaskEvaluation, error) {
	today := DayString(e.Clock.Now())
	meals, err := e.Activity.MealsOn(ctx, in.UserID, today)
	if err != nil {
		return model.TaskEvaluation{}, fmt.Errorf("meals for %s: %w", today, err)
	}

	live := e.liveTargets(ctx, in.UserID)
	target, source := ResolveTarget(e.Defaults, model.TargetProtein, in.Condition, live)
	current := DailyProteinTotal(meals)

	return model.TaskEvaluation{
		CanComplete: current >= target,
		Progress:    model.ClampProgress(current / target),
		Current:     current,
		Target:      target,
		Details:     fmt.Sprintf("protein target %.0fg (%s)", target, source),
	}, nil
}

func evalStreakDays(ctx context.Context, e *Evaluator, in EvalInput) (model.TaskEvaluation, error) {
	now := e.Clock.Now()

	required := int(in.Condition.Target)
	if required <= 0 {
		required = int(e.Defaults.StreakDays)
	}

	// Only the last `required` days can matter, further bounded by the
	// stage unlock floor.
	since := DayStringOffset(now, -(required - 1))
	floor := in.floorDay()
	if floor > since {
		since = floor
	}

	meals, err := e.Activity.MealsSince(ctx, in.UserID, since)
	if err != nil {
		return model.TaskEvaluation{}, fmt.Errorf("meals since %s: %w", since, err)
	}
	days := make(map[string]bool, len(meals))
	for _, m := range meals {
		days[m.Date] = true
	}

	streak := ConsecutiveDays(days, required, floor, now)
	current := float64(streak)
	target := float64(required)

	return model.TaskEvaluation{
		CanComplete: current >= target,
		Progress:    model.ClampProgress(current / target),
		Current:     current,
		Target:      target,
		Details:     fmt.Sprintf("%d-day streak of %d", streak, required),
	}, nil
}

// evalWeeklyWindow serves the deficit/surplus/balanced trio. A day counts
// when its calorie total lands inside [target-buffer, target+buffer]; a day
// with no entries totals zero and so falls out of band. Completion requires
// every day in the window to qualify, not merely an averaged progress of 1.
func evalWeeklyWindow(ctx context.Context, e *Evaluator, in EvalInput) (model.TaskEvaluation, error) {
	now := e.Clock.Now()
	lookback := e.Defaults.lookback(in.Condition)
	buffer := e.Defaults.buffer(in.Condition)

	live := e.liveTargets(ctx, in.UserID)
	// Target on weekly conditions is the tolerance band half-width, not a
	// frozen calorie value, so the frozen tier is skipped on purpose.
	calTarget, source := ResolveTarget(e.Defaults, model.TargetCalories,
		model.TaskCondition{Type: in.Condition.Type}, live)

	since := DayStringOffset(now, -(lookback - 1))
	meals, err := e.Activity.MealsSince(ctx, in.UserID, since)
	if err != nil {
		return model.TaskEvaluation{}, fmt.Errorf("meals since %s: %w", since, err)
	}
	totals := DailyCalorieTotals(meals, lookback, now)

	success := 0
	for _, day := range WindowDays(lookback, now) {
		total := totals[day]
		if total >= calTarget-buffer && total <= calTarget+buffer {
			success++
		}
	}

	return model.TaskEvaluation{
		CanComplete: success == lookback,
		Progress:    model.ClampProgress(float64(success) / float64(lookback)),
		Current:     float64(success),
		Target:      float64(lookback),
		Details: fmt.Sprintf("%d/%d days within ±%.0f kcal of %.0f (%s)",
			success, lookback, buffer, calTarget, source),
	}, nil
}

func evalTotalMeals(ctx context.Context, e *Evaluator, in EvalInput) (model.TaskEvaluation, error) {
	count, err := e.Activity.CountMealsSince(ctx, in.UserID, in.floorDay())
	if err != nil {
		return model.TaskEvaluation{}, fmt.Errorf("count meals: %w", err)
	}
	return cumulativeEval(float64(count), in.Condition.Target, "meals logged"), nil
}

func evalTotalWeighIns(ctx context.Context, e *Evaluator, in EvalInput) (model.TaskEvaluation, error) {
	count, err := e.Activity.CountWeighInsSince(ctx, in.UserID, in.floorDay())
	if err != nil {
		return model.TaskEvaluation{}, fmt.Errorf("count weigh-ins: %w", err)
	}
	return cumulativeEval(float64(count), in.Condition.Target, "weigh-ins"), nil
}

func cumulativeEval(current, target float64, noun string) model.TaskEvaluation {
	if target <= 0 {
		target = 1
	}
	return model.TaskEvaluation{
		CanComplete: current >= target,
		Progress:    model.ClampProgress(current / target),
		Current:     current,
		Target:      target,
		Details:     fmt.Sprintf("%.0f of %.0f %s", current, target, noun),
	}
}
