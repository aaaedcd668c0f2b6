package journey

import "github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"

// DefaultStages is the shipped journey. Targets on the weekly tasks are
// tolerance band half-widths; calorie goals come from the user's live plan.
func DefaultStages() []Stage {
	return []Stage{
		{
			ID:    "stage_foundation",
			Title: "Foundation",
			Order: 1,
			Tasks: []Task{
				{
					ID:     "t_first_weigh_in",
					Title:  "Step on the scale",
					Points: 10,
					Conditions: []model.TaskCondition{
						{Type: model.CondFirstWeighIn},
					},
				},
				{
					ID:          "t_log_three_meals",
					Title:       "Log three meals today",
					Description: "Breakfast, lunch and dinner all tracked.",
					Points:      10,
					Conditions: []model.TaskCondition{
						{Type: model.CondLogMealsToday, Target: 3},
					},
				},
			},
		},
		{
			ID:    "stage_consistency",
			Title: "Consistency",
			Order: 2,
			Tasks: []Task{
				{
					ID:     "t_protein_goal",
					Title:  "Hit your protein goal",
					Points: 15,
					Conditions: []model.TaskCondition{
						{Type: model.CondHitProteinGoal, UseUserTarget: true},
					},
				},
				{
					ID:          "t_week_streak",
					Title:       "Keep a 7-day logging streak",
					Description: "Log at least one meal every day for a week.",
					Points:      25,
					Conditions: []model.TaskCondition{
						{Type: model.CondStreakDays, Target: 7},
					},
				},
				{
					ID:     "t_twenty_meals",
					Title:  "Log 20 meals this stage",
					Points: 20,
					Conditions: []model.TaskCondition{
						{Type: model.CondTotalMealsLogged, Target: 20},
					},
				},
			},
		},
		{
			ID:    "stage_mastery",
			Title: "Mastery",
			Order: 3,
			Tasks: []Task{
				{
					ID:          "t_deficit_week",
					Title:       "Stay in your calorie window for a week",
					Description: "Every day within ±100 kcal of your daily target.",
					Points:      40,
					Conditions: []model.TaskCondition{
						{Type: model.CondWeeklyDeficit, LookbackDays: 7, UseUserTarget: true},
					},
				},
				{
					ID:     "t_weigh_in_habit",
					Title:  "Weigh in four times",
					Points: 15,
					Conditions: []model.TaskCondition{
						{Type: model.CondTotalWeighIns, Target: 4},
					},
				},
			},
		},
	}
}
