// Package engine is the task progress evaluation core: given a task's
// stored conditions and a user's historical activity, it decides how
// complete the task currently is and whether it may be marked done.
//
// Evaluation is a pure read pipeline over append-only records. Concurrent
// evaluations may recompute redundantly; that is accepted rather than
// locked, since nothing here mutates persisted state.
package engine

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/activity"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/plan"
)

// EvalInput names what a single condition evaluation needs.
// StageUnlockedAt, when set, floors how far back streak and cumulative
// conditions may count — history predating the stage is never credited.
type EvalInput struct {
	UserID          string
	Condition       model.TaskCondition
	StageUnlockedAt time.Time
}

func (in EvalInput) floorDay() string {
	if in.StageUnlockedAt.IsZero() {
		return ""
	}
	return DayString(in.StageUnlockedAt)
}

type Evaluator struct {
	Activity activity.Repo
	Plans    plan.Repo
	Clock    Clock
	Defaults Defaults
	Logger   *log.Logger
}

func NewEvaluator(act activity.Repo, plans plan.Repo, clk Clock, d Defaults, logger *log.Logger) *Evaluator {
	if clk == nil {
		clk = RealClock{}
	}
	if logger == nil {
		logger = log.Default()
	}
	d.ApplyDefaults()
	return &Evaluator{
		Activity: act,
		Plans:    plans,
		Clock:    clk,
		Defaults: d,
		Logger:   logger,
	}
}

// safeDefault is the evaluation a condition resolves to when its query
// fails or its type is unknown: never completable, zero progress. A single
// bad condition must not take down an otherwise-healthy journey screen.
func safeDefault() model.TaskEvaluation {
	return model.TaskEvaluation{CanComplete: false, Progress: 0}
}

// EvaluateCondition runs one condition through its strategy. It never
// returns an error and never panics; failures are logged and degrade to the
// safe default.
func (e *Evaluator) EvaluateCondition(ctx context.Context, in EvalInput) model.TaskEvaluation {
	strat, ok := strategies[in.Condition.Type]
	if !ok {
		e.Logger.Printf(`{"level":"warn","msg":"unknown_condition_type","type":%q,"user":%q}`,
			string(in.Condition.Type), in.UserID)
		return safeDefault()
	}

	ev, err := strat(ctx, e, in)
	if err != nil {
		e.Logger.Printf(`{"level":"warn","msg":"condition_eval_failed","type":%q,"user":%q,"error":%q}`,
			string(in.Condition.Type), in.UserID, err.Error())
		return safeDefault()
	}

	ev.Progress = model.ClampProgress(ev.Progress)
	return ev
}

// EvaluateAll folds a task's condition set into one evaluation with AND
// semantics. An empty set is vacuously complete. Progress is the arithmetic
// mean of sub-progresses — deliberately distinct from CanComplete, so the
// UI can show effort while one blocking sub-condition still gates
// completion. Independent conditions are queried concurrently.
func (e *Evaluator) EvaluateAll(ctx context.Context, userID string, conds []model.TaskCondition, stageUnlockedAt time.Time) model.TaskEvaluation {
	if len(conds) == 0 {
		return model.TaskEvaluation{CanComplete: true, Progress: 1}
	}

	results := make([]model.TaskEvaluation, len(conds))
	var wg sync.WaitGroup
	for i, c := range conds {
		wg.Add(1)
		go func(i int, c model.TaskCondition) {
			defer wg.Done()
			results[i] = e.EvaluateCondition(ctx, EvalInput{
				UserID:          userID,
				Condition:       c,
				StageUnlockedAt: stageUnlockedAt,
			})
		}(i, c)
	}
	wg.Wait()

	agg := model.TaskEvaluation{CanComplete: true}
	var details []string
	for _, r := range results {
		agg.CanComplete = agg.CanComplete && r.CanComplete
		agg.Progress += r.Progress
		if r.Details != "" {
			details = append(details, r.Details)
		}
	}
	agg.Progress = model.ClampProgress(agg.Progress / float64(len(results)))
	agg.Details = strings.Join(details, "; ")
	return agg
}

// liveTargets fetches the user's current plan. Absence is not an error —
// resolution simply falls through to the frozen/default tiers. Query
// failures are logged and treated the same way.
func (e *Evaluator) liveTargets(ctx context.Context, userID string) *model.NutritionTargets {
	t, err := e.Plans.Targets(ctx, userID)
	if err != nil {
		if !errors.Is(err, plan.ErrNotFound) {
			e.Logger.Printf(`{"level":"warn","msg":"live_targets_unavailable","user":%q,"error":%q}`,
				userID, err.Error())
		}
		return nil
	}
	return &t
}
