package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
)

func TestResolveTarget_PriorityChain(t *testing.T) {
	d := Defaults{ProteinG: 100}
	d.ApplyDefaults()

	cond := model.TaskCondition{Type: model.CondHitProteinGoal, Target: 120}
	live := &model.NutritionTargets{ProteinG: 150}

	v, src := ResolveTarget(d, model.TargetProtein, cond, live)
	assert.Equal(t, 150.0, v)
	assert.Equal(t, model.SourceLivePlan, src)

	// Live plan gone: the frozen value wins.
	v, src = ResolveTarget(d, model.TargetProtein, cond, nil)
	assert.Equal(t, 120.0, v)
	assert.Equal(t, model.SourceFrozen, src)

	// Frozen gone too: hard default.
	v, src = ResolveTarget(d, model.TargetProtein, model.TaskCondition{Type: model.CondHitProteinGoal}, nil)
	assert.Equal(t, 100.0, v)
	assert.Equal(t, model.SourceDefault, src)
}

func TestResolveTarget_ZeroLiveValueFallsThrough(t *testing.T) {
	d := Defaults{}
	d.ApplyDefaults()

	// A plan exists but has no protein target yet.
	live := &model.NutritionTargets{Calories: 2100}
	v, src := ResolveTarget(d, model.TargetProtein, model.TaskCondition{Target: 130}, live)
	assert.Equal(t, 130.0, v)
	assert.Equal(t, model.SourceFrozen, src)
}

func TestResolveTarget_CalorieFlavorDefaults(t *testing.T) {
	d := Defaults{}
	d.ApplyDefaults()

	cases := []struct {
		typ  model.ConditionType
		want float64
	}{
		{model.CondWeeklyDeficit, 2000},
		{model.CondWeeklySurplus, 2200},
		{model.CondWeeklyBalanced, 2500},
	}
	for _, tc := range cases {
		v, src := ResolveTarget(d, model.TargetCalories, model.TaskCondition{Type: tc.typ}, nil)
		assert.Equal(t, tc.want, v, "flavor %s", tc.typ)
		assert.Equal(t, model.SourceDefault, src)
	}
}

func TestDefaults_WeeklyBuffer(t *testing.T) {
	d := Defaults{}
	d.ApplyDefaults()

	assert.Equal(t, 100.0, d.buffer(model.TaskCondition{Type: model.CondWeeklyDeficit}))
	assert.Equal(t, 100.0, d.buffer(model.TaskCondition{Type: model.CondWeeklySurplus}))
	assert.Equal(t, 200.0, d.buffer(model.TaskCondition{Type: model.CondWeeklyBalanced}))

	// The band half-width is condition-configurable.
	assert.Equal(t, 150.0, d.buffer(model.TaskCondition{Type: model.CondWeeklyBalanced, Target: 150}))
}
