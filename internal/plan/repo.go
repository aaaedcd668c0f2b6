// Package plan stores each user's live nutrition plan. The evaluation
// engine reads it to personalize targets; the onboarding/coaching flow
// (out of scope here) writes it via the HTTP surface.
package plan

import (
	"context"
	"errors"
	"sync"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
)

var ErrNotFound = errors.New("plan not found")

// Repo reads and replaces a user's current nutrition targets.
// Targets returns ErrNotFound when no plan has been generated yet;
// the engine treats that as "no live targets", not as a failure.
type Repo interface {
	Targets(ctx context.Context, userID string) (model.NutritionTargets, error)
	SetTargets(ctx context.Context, userID string, t model.NutritionTargets) error
}

type MemoryRepo struct {
	mu    sync.RWMutex
	plans map[string]model.NutritionTargets
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{plans: map[string]model.NutritionTargets{}}
}

func (r *MemoryRepo) Targets(_ context.Context, userID string) (model.NutritionTargets, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.plans[userID]
	if !ok {
		return model.NutritionTargets{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) SetTargets(_ context.Context, userID string, t model.NutritionTargets) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.plans[userID] = t
	return nil
}
