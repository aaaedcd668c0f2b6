package journey

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
)

func TestMemoryRepo_SeedAndLookup(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()
	require.NoError(t, r.Seed(ctx, DefaultStages()))

	stages, err := r.Stages(ctx)
	require.NoError(t, err)
	require.Len(t, stages, 3)
	assert.Equal(t, "stage_foundation", stages[0].ID)
	assert.Equal(t, "stage_mastery", stages[2].ID)

	task, err := r.Task(ctx, "t_week_streak")
	require.NoError(t, err)
	// Seed stamps the owning stage onto each task.
	assert.Equal(t, "stage_consistency", task.StageID)
	assert.Equal(t, model.CondStreakDays, task.Conditions[0].Type)

	_, err = r.Task(ctx, "t_nope")
	assert.ErrorIs(t, err, ErrTaskNotFound)

	_, err = r.Stage(ctx, "stage_nope")
	assert.ErrorIs(t, err, ErrStageNotFound)
}

func TestMemoryStateRepo_EnsureIsStable(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryStateRepo()
	t0 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	st, err := r.Ensure(ctx, "u1", "stage_foundation", t0)
	require.NoError(t, err)
	assert.Equal(t, t0, st.StageUnlockedAt)

	// A later Ensure must not move the unlock timestamp.
	st, err = r.Ensure(ctx, "u1", "stage_foundation", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, t0, st.StageUnlockedAt)
}

func TestMemoryStateRepo_MarkCompletedIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryStateRepo()
	t0 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	_, err := r.Ensure(ctx, "u1", "stage_foundation", t0)
	require.NoError(t, err)

	c := Completion{TaskID: "t_first_weigh_in", CompletedAt: t0, Points: 10}
	require.NoError(t, r.MarkCompleted(ctx, "u1", c))
	require.NoError(t, r.MarkCompleted(ctx, "u1", c))

	st, err := r.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 10, st.Points)
	assert.True(t, st.Completed("t_first_weigh_in"))
}
