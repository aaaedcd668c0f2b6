package plan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
)

func TestMemoryRepo_Targets(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	_, err := r.Targets(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	want := model.NutritionTargets{Calories: 2100, ProteinG: 145, TDEE: 2600}
	require.NoError(t, r.SetTargets(ctx, "u1", want))

	got, err := r.Targets(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Replacing the plan is a full overwrite.
	require.NoError(t, r.SetTargets(ctx, "u1", model.NutritionTargets{Calories: 1900}))
	got, err = r.Targets(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.ProteinG)
}
