package activity

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo keeps activity records in memory. Used by tests and by the
// server when no SQLite path is configured.
type MemoryRepo struct {
	mu       sync.RWMutex
	meals    map[string][]Meal
	weighIns map[string][]WeighIn
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		meals:    map[string][]Meal{},
		weighIns: map[string][]WeighIn{},
	}
}

func (r *MemoryRepo) LogMeal(_ context.Context, m Meal) error {
	if !ValidDay(m.Date) {
		return ErrBadDate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meals[m.UserID] = append(r.meals[m.UserID], m)
	return nil
}

func (r *MemoryRepo) LogWeighIn(_ context.Context, w WeighIn) error {
	if !ValidDay(w.Date) {
		return ErrBadDate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.weighIns[w.UserID] = append(r.weighIns[w.UserID], w)
	return nil
}

func (r *MemoryRepo) MealsSince(_ context.Context, userID, sinceDay string) ([]Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Meal, 0)
	for _, m := range r.meals[userID] {
		if sinceDay == "" || m.Date >= sinceDay {
			out = append(out, m)
		}
	}
	// YYYY-MM-DD compares lexicographically; stable order for determinism.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *MemoryRepo) MealsOn(_ context.Context, userID, day string) ([]Meal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Meal, 0)
	for _, m := range r.meals[userID] {
		if m.Date == day {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MemoryRepo) CountMealsSince(ctx context.Context, userID, sinceDay string) (int, error) {
	ms, err := r.MealsSince(ctx, userID, sinceDay)
	if err != nil {
		return 0, err
	}
	return len(ms), nil
}

func (r *MemoryRepo) WeighInsSince(_ context.Context, userID, sinceDay string) ([]WeighIn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]WeighIn, 0)
	for _, w := range r.weighIns[userID] {
		if sinceDay == "" || w.Date >= sinceDay {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (r *MemoryRepo) CountWeighInsSince(ctx context.Context, userID, sinceDay string) (int, error) {
	ws, err := r.WeighInsSince(ctx, userID, sinceDay)
	if err != nil {
		return 0, err
	}
	return len(ws), nil
}

func (r *MemoryRepo) HasWeighIn(_ context.Context, userID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.weighIns[userID]) > 0, nil
}
