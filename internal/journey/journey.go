// Package journey models the coaching journey: ordered stages, each with
// tasks a user completes by satisfying declarative conditions. Completing
// every task of a stage unlocks the next one; the unlock timestamp floors
// streak and cumulative counting for that stage's tasks.
package journey

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
)

var (
	ErrTaskNotFound  = errors.New("journey task not found")
	ErrStageNotFound = errors.New("journey stage not found")
)

type Task struct {
	ID          string                `json:"id" yaml:"id"`
	StageID     string                `json:"stageId" yaml:"stage_id"`
	Title       string                `json:"title" yaml:"title"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Points      int                   `json:"points" yaml:"points"`
	Conditions  []model.TaskCondition `json:"conditions" yaml:"conditions"`
}

type Stage struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Order int    `json:"order" yaml:"order"`
	Tasks []Task `json:"tasks" yaml:"tasks"`
}

// Repo serves the authored journey definition. Authoring itself is out of
// scope; definitions arrive via Seed.
type Repo interface {
	Stages(ctx context.Context) ([]Stage, error)
	Stage(ctx context.Context, id string) (Stage, error)
	Task(ctx context.Context, id string) (Task, error)
	Seed(ctx context.Context, stages []Stage) error
}

type MemoryRepo struct {
	mu     sync.RWMutex
	stages map[string]Stage
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{stages: map[string]Stage{}}
}

func (r *MemoryRepo) Seed(_ context.Context, stages []Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range stages {
		for i := range s.Tasks {
			s.Tasks[i].StageID = s.ID
		}
		r.stages[s.ID] = s
	}
	return nil
}

func (r *MemoryRepo) Stages(_ context.Context) ([]Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Stage, 0, len(r.stages))
	for _, s := range r.stages {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *MemoryRepo) Stage(_ context.Context, id string) (Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stages[id]
	if !ok {
		return Stage{}, ErrStageNotFound
	}
	return s, nil
}

func (r *MemoryRepo) Task(_ context.Context, id string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.stages {
		for _, t := range s.Tasks {
			if t.ID == id {
				return t, nil
			}
		}
	}
	return Task{}, ErrTaskNotFound
}

// Completion records one awarded task completion.
type Completion struct {
	TaskID      string    `json:"taskId"`
	CompletedAt time.Time `json:"completedAt"`
	Points      int       `json:"points"`
}

// UserState is a user's position in the journey plus the points ledger.
type UserState struct {
	UserID          string                `json:"userId"`
	StageID         string                `json:"stageId"`
	StageUnlockedAt time.Time             `json:"stageUnlockedAt"`
	Completions     map[string]Completion `json:"completions"`
	Points          int                   `json:"points"`
}

func (s UserState) Completed(taskID string) bool {
	_, ok := s.Completions[taskID]
	return ok
}

// StateRepo persists per-user journey state. Ensure initializes a missing
// user at the given stage so the unlock timestamp is pinned to first
// contact, not to each read.
type StateRepo interface {
	Ensure(ctx context.Context, userID, stageID string, unlockedAt time.Time) (UserState, error)
	Get(ctx context.Context, userID string) (UserState, error)
	MarkCompleted(ctx context.Context, userID string, c Completion) error
	AdvanceStage(ctx context.Context, userID, stageID string, unlockedAt time.Time) error
}

type MemoryStateRepo struct {
	mu     sync.RWMutex
	states map[string]UserState
}

func NewMemoryStateRepo() *MemoryStateRepo {
	return &MemoryStateRepo{states: map[string]UserState{}}
}

func (r *MemoryStateRepo) Ensure(_ context.Context, userID, stageID string, unlockedAt time.Time) (UserState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.states[userID]; ok {
		return s, nil
	}
	s := UserState{
		UserID:          userID,
		StageID:         stageID,
		StageUnlockedAt: unlockedAt,
		Completions:     map[string]Completion{},
	}
	r.states[userID] = s
	return s, nil
}

func (r *MemoryStateRepo) Get(_ context.Context, userID string) (UserState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[userID]
	if !ok {
		return UserState{}, errors.New("journey state not initialized")
	}
	return s, nil
}

func (r *MemoryStateRepo) MarkCompleted(_ context.Context, userID string, c Completion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[userID]
	if !ok {
		return errors.New("journey state not initialized")
	}
	if _, done := s.Completions[c.TaskID]; done {
		return nil
	}
	s.Completions[c.TaskID] = c
	s.Points += c.Points
	r.states[userID] = s
	return nil
}

func (r *MemoryStateRepo) AdvanceStage(_ context.Context, userID, stageID string, unlockedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.states[userID]
	if !ok {
		return errors.New("journey state not initialized")
	}
	s.StageID = stageID
	s.StageUnlockedAt = unlockedAt
	r.states[userID] = s
	return nil
}
