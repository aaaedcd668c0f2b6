package journey

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/cache"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/engine"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/telemetry"
)

// Service ties the journey definition, per-user state and the evaluation
// engine together. The UI reads through the cache; task completion always
// re-evaluates fresh, since it gates an irreversible point award.
type Service struct {
	Defs   Repo
	State  StateRepo
	Eval   *engine.Evaluator
	Cache  *cache.Cache         // optional
	Events telemetry.Repository // optional
	Logger *log.Logger
}

func NewService(defs Repo, state StateRepo, eval *engine.Evaluator, c *cache.Cache, events telemetry.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{Defs: defs, State: state, Eval: eval, Cache: c, Events: events, Logger: logger}
}

func (s *Service) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if s.Events == nil {
		return
	}
	_ = s.Events.RecordEvent(t, md)
}

// ensureState pins a new user to the first stage at first contact, so the
// stage unlock timestamp is stable across reads.
func (s *Service) ensureState(ctx context.Context, userID string) (UserState, error) {
	stages, err := s.Defs.Stages(ctx)
	if err != nil {
		return UserState{}, fmt.Errorf("load stages: %w", err)
	}
	if len(stages) == 0 {
		return UserState{}, fmt.Errorf("journey has no stages")
	}
	return s.State.Ensure(ctx, userID, stages[0].ID, s.Eval.Clock.Now())
}

// floorFor returns the stage-unlock floor applying to a task: history
// predating the user's current stage never counts toward its tasks.
func floorFor(st UserState, t Task) time.Time {
	if t.StageID == st.StageID {
		return st.StageUnlockedAt
	}
	return time.Time{}
}

// TaskProgress evaluates one task for the detail view, memoized under
// progress:{user}:{task}.
func (s *Service) TaskProgress(ctx context.Context, userID, taskID string) (model.TaskEvaluation, error) {
	key := cache.ProgressKey(userID, taskID)
	if s.Cache != nil {
		if v, ok := s.Cache.Get(key); ok {
			s.record(telemetry.EventCacheHit, telemetry.EventMetadata{"key": key})
			return v.(model.TaskEvaluation), nil
		}
		s.record(telemetry.EventCacheMiss, telemetry.EventMetadata{"key": key})
	}

	t, err := s.Defs.Task(ctx, taskID)
	if err != nil {
		return model.TaskEvaluation{}, err
	}
	st, err := s.ensureState(ctx, userID)
	if err != nil {
		return model.TaskEvaluation{}, err
	}

	ev := s.Eval.EvaluateAll(ctx, userID, t.Conditions, floorFor(st, t))
	s.record(telemetry.EventEvaluationRan, telemetry.EventMetadata{
		"user_id": userID, "task_id": taskID, "progress": ev.Progress,
	})

	if s.Cache != nil {
		s.Cache.Set(key, ev)
	}
	return ev, nil
}

// CompletionResult is the completion endpoint's answer. OK reports whether
// the completion was performed (or had already been performed); a refused
// gate carries the per-condition breakdown instead.
type CompletionResult struct {
	OK               bool     `json:"ok"`
	CanComplete      bool     `json:"canComplete"`
	AlreadyCompleted bool     `json:"alreadyCompleted,omitempty"`
	Satisfied        []string `json:"satisfied"`
	Missing          []string `json:"missing"`
	PointsAwarded    int      `json:"pointsAwarded"`
	StageUnlocked    string   `json:"stageUnlocked,omitempty"`
}

// CompleteTask is the authoritative gate: it re-runs every condition fresh
// (cache bypassed) before awarding points. Completing an already-completed
// task is a no-op that still reports ok.
func (s *Service) CompleteTask(ctx context.Context, userID, taskID string) (CompletionResult, error) {
	t, err := s.Defs.Task(ctx, taskID)
	if err != nil {
		return CompletionResult{}, err
	}
	st, err := s.ensureState(ctx, userID)
	if err != nil {
		return CompletionResult{}, err
	}

	res := CompletionResult{Satisfied: []string{}, Missing: []string{}}

	if st.Completed(taskID) {
		res.OK = true
		res.CanComplete = true
		res.AlreadyCompleted = true
		for _, c := range t.Conditions {
			res.Satisfied = append(res.Satisfied, string(c.Type))
		}
		return res, nil
	}

	floor := floorFor(st, t)
	for _, c := range t.Conditions {
		ev := s.Eval.EvaluateCondition(ctx, engine.EvalInput{
			UserID:          userID,
			Condition:       c,
			StageUnlockedAt: floor,
		})
		if ev.CanComplete {
			res.Satisfied = append(res.Satisfied, string(c.Type))
		} else {
			res.Missing = append(res.Missing, string(c.Type))
		}
	}
	res.CanComplete = len(res.Missing) == 0
	if !res.CanComplete {
		return res, nil
	}

	now := s.Eval.Clock.Now()
	if err := s.State.MarkCompleted(ctx, userID, Completion{
		TaskID:      taskID,
		CompletedAt: now,
		Points:      t.Points,
	}); err != nil {
		return res, fmt.Errorf("mark completed: %w", err)
	}
	res.OK = true
	res.PointsAwarded = t.Points

	if s.Cache != nil {
		s.Cache.InvalidateUser(userID)
	}
	s.record(telemetry.EventTaskCompleted, telemetry.EventMetadata{
		"user_id": userID, "task_id": taskID, "points": t.Points,
	})

	unlocked, err := s.maybeAdvanceStage(ctx, userID, t.StageID, now)
	if err != nil {
		// Points are already awarded; report the completion and log the
		// stalled advancement rather than failing the request.
		s.Logger.Printf(`{"level":"error","msg":"stage_advance_failed","user":%q,"error":%q}`,
			userID, err.Error())
		return res, nil
	}
	res.StageUnlocked = unlocked
	return res, nil
}

// maybeAdvanceStage unlocks the next stage once every task of the current
// one is completed. Returns the unlocked stage ID, or empty.
func (s *Service) maybeAdvanceStage(ctx context.Context, userID, stageID string, now time.Time) (string, error) {
	st, err := s.State.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if st.StageID != stageID {
		return "", nil
	}

	stage, err := s.Defs.Stage(ctx, stageID)
	if err != nil {
		return "", err
	}
	for _, t := range stage.Tasks {
		if !st.Completed(t.ID) {
			return "", nil
		}
	}

	stages, err := s.Defs.Stages(ctx)
	if err != nil {
		return "", err
	}
	for _, next := range stages {
		if next.Order == stage.Order+1 {
			if err := s.State.AdvanceStage(ctx, userID, next.ID, now); err != nil {
				return "", err
			}
			if s.Cache != nil {
				s.Cache.InvalidateUser(userID)
			}
			s.record(telemetry.EventStageUnlocked, telemetry.EventMetadata{
				"user_id": userID, "stage_id": next.ID,
			})
			return next.ID, nil
		}
	}
	return "", nil
}

// EvaluateTasks is the batch variant: many tasks for one user, evaluated in
// parallel, returning taskID -> completable. Unknown tasks map to false.
func (s *Service) EvaluateTasks(ctx context.Context, userID string, taskIDs []string) map[string]bool {
	out := make(map[string]bool, len(taskIDs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range taskIDs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			ev, err := s.TaskProgress(ctx, userID, id)
			mu.Lock()
			out[id] = err == nil && ev.CanComplete
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return out
}

// View is the journey screen's payload: every stage with per-task
// evaluations for the unlocked ones.
type View struct {
	UserID string      `json:"userId"`
	Points int         `json:"points"`
	Stages []StageView `json:"stages"`
}

type StageView struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Order    int        `json:"order"`
	Unlocked bool       `json:"unlocked"`
	Current  bool       `json:"current"`
	Tasks    []TaskView `json:"tasks"`
}

type TaskView struct {
	Task
	Completed  bool                  `json:"completed"`
	Evaluation *model.TaskEvaluation `json:"evaluation,omitempty"`
}

// Journey assembles the full journey state for a user, memoized under
// journey:{user}. Tasks of unlocked stages are evaluated concurrently.
func (s *Service) Journey(ctx context.Context, userID string) (View, error) {
	key := cache.JourneyKey(userID)
	if s.Cache != nil {
		if v, ok := s.Cache.Get(key); ok {
			s.record(telemetry.EventCacheHit, telemetry.EventMetadata{"key": key})
			return v.(View), nil
		}
		s.record(telemetry.EventCacheMiss, telemetry.EventMetadata{"key": key})
	}

	st, err := s.ensureState(ctx, userID)
	if err != nil {
		return View{}, err
	}
	stages, err := s.Defs.Stages(ctx)
	if err != nil {
		return View{}, fmt.Errorf("load stages: %w", err)
	}

	currentOrder := 0
	for _, stage := range stages {
		if stage.ID == st.StageID {
			currentOrder = stage.Order
		}
	}

	view := View{UserID: userID, Points: st.Points}
	for _, stage := range stages {
		sv := StageView{
			ID:       stage.ID,
			Title:    stage.Title,
			Order:    stage.Order,
			Unlocked: stage.Order <= currentOrder,
			Current:  stage.ID == st.StageID,
			Tasks:    make([]TaskView, len(stage.Tasks)),
		}

		var wg sync.WaitGroup
		for i, t := range stage.Tasks {
			tv := TaskView{Task: t, Completed: st.Completed(t.ID)}
			if tv.Completed {
				tv.Evaluation = &model.TaskEvaluation{CanComplete: true, Progress: 1}
			}
			sv.Tasks[i] = tv
			if !tv.Completed && sv.Unlocked {
				wg.Add(1)
				go func(i int, t Task) {
					defer wg.Done()
					ev := s.Eval.EvaluateAll(ctx, userID, t.Conditions, floorFor(st, t))
					sv.Tasks[i].Evaluation = &ev
				}(i, t)
			}
		}
		wg.Wait()
		view.Stages = append(view.Stages, sv)
	}

	if s.Cache != nil {
		s.Cache.Set(key, view)
	}
	return view, nil
}
