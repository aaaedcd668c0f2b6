package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/activity"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/journey"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/plan"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "gymbro_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_ActivityRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.LogMeal(ctx, activity.Meal{UserID: "u1", Date: "2026-03-09", Calories: 700, ProteinG: 45}))
	require.NoError(t, s.LogMeal(ctx, activity.Meal{UserID: "u1", Date: "2026-03-10", Calories: 500, ProteinG: 30}))
	require.NoError(t, s.LogMeal(ctx, activity.Meal{UserID: "u2", Date: "2026-03-10", Calories: 900, ProteinG: 60}))

	meals, err := s.MealsSince(ctx, "u1", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, meals, 1)
	assert.Equal(t, 500.0, meals[0].Calories)

	meals, err = s.MealsSince(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, meals, 2)
	// Ascending by date.
	assert.Equal(t, "2026-03-09", meals[0].Date)

	meals, err = s.MealsOn(ctx, "u1", "2026-03-09")
	require.NoError(t, err)
	assert.Len(t, meals, 1)

	n, err := s.CountMealsSince(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.ErrorIs(t, s.LogMeal(ctx, activity.Meal{UserID: "u1", Date: "bad"}), activity.ErrBadDate)
}

func TestStore_WeighIns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	has, err := s.HasWeighIn(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, s.LogWeighIn(ctx, activity.WeighIn{UserID: "u1", Date: "2026-03-09", WeightKg: 83.2}))
	require.NoError(t, s.LogWeighIn(ctx, activity.WeighIn{UserID: "u1", Date: "2026-03-10", WeightKg: 82.8}))

	has, err = s.HasWeighIn(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, has)

	ws, err := s.WeighInsSince(ctx, "u1", "2026-03-10")
	require.NoError(t, err)
	require.Len(t, ws, 1)
	assert.Equal(t, 82.8, ws[0].WeightKg)

	n, err := s.CountWeighInsSince(ctx, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_PlanUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Targets(ctx, "u1")
	assert.ErrorIs(t, err, plan.ErrNotFound)

	require.NoError(t, s.SetTargets(ctx, "u1", model.NutritionTargets{Calories: 2100, ProteinG: 150, TDEE: 2600}))
	got, err := s.Targets(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 150.0, got.ProteinG)

	require.NoError(t, s.SetTargets(ctx, "u1", model.NutritionTargets{Calories: 1900, ProteinG: 140}))
	got, err = s.Targets(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1900.0, got.Calories)
	assert.Equal(t, 0.0, got.TDEE)
}

func TestStore_JourneyState(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	t0 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	st, err := s.Ensure(ctx, "u1", "stage_foundation", t0)
	require.NoError(t, err)
	assert.Equal(t, "stage_foundation", st.StageID)
	assert.True(t, st.StageUnlockedAt.Equal(t0))
	assert.Zero(t, st.Points)

	// Ensure is first-write-wins.
	st, err = s.Ensure(ctx, "u1", "stage_other", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "stage_foundation", st.StageID)
	assert.True(t, st.StageUnlockedAt.Equal(t0))

	c := journey.Completion{TaskID: "t_first_weigh_in", CompletedAt: t0, Points: 10}
	require.NoError(t, s.MarkCompleted(ctx, "u1", c))
	// Re-completion must not double-award.
	require.NoError(t, s.MarkCompleted(ctx, "u1", c))

	st, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, st.Points)
	assert.True(t, st.Completed("t_first_weigh_in"))
	assert.True(t, st.Completions["t_first_weigh_in"].CompletedAt.Equal(t0))

	t1 := t0.Add(2 * time.Hour)
	require.NoError(t, s.AdvanceStage(ctx, "u1", "stage_consistency", t1))
	st, err = s.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "stage_consistency", st.StageID)
	assert.True(t, st.StageUnlockedAt.Equal(t1))
	assert.Equal(t, 10, st.Points)
}
