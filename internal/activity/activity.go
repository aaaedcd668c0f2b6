// Package activity holds the user's historical nutrition records: meal
// entries and weigh-ins. The evaluation engine only ever reads them;
// the HTTP write paths append and never update in place.
package activity

import (
	"context"
	"errors"
	"time"
)

var ErrBadDate = errors.New("date must be YYYY-MM-DD")

// DayFormat is the calendar-day encoding used everywhere in the service.
// Records are dated in UTC calendar days.
const DayFormat = "2006-01-02"

// Meal is one logged meal entry.
type Meal struct {
	UserID   string  `json:"userId"`
	Date     string  `json:"date"` // YYYY-MM-DD, UTC
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"proteinG"`
}

// WeighIn is one logged weight observation.
type WeighIn struct {
	UserID   string  `json:"userId"`
	Date     string  `json:"date"` // YYYY-MM-DD, UTC
	WeightKg float64 `json:"weightKg"`
}

// Repo is the read/append surface over activity records. Since-arguments
// are inclusive day strings; empty means "no lower bound".
type Repo interface {
	LogMeal(ctx context.Context, m Meal) error
	LogWeighIn(ctx context.Context, w WeighIn) error

	MealsSince(ctx context.Context, userID, sinceDay string) ([]Meal, error)
	MealsOn(ctx context.Context, userID, day string) ([]Meal, error)
	CountMealsSince(ctx context.Context, userID, sinceDay string) (int, error)

	WeighInsSince(ctx context.Context, userID, sinceDay string) ([]WeighIn, error)
	CountWeighInsSince(ctx context.Context, userID, sinceDay string) (int, error)
	HasWeighIn(ctx context.Context, userID string) (bool, error)
}

// ValidDay reports whether s parses as a calendar day in DayFormat.
func ValidDay(s string) bool {
	_, err := time.Parse(DayFormat, s)
	return err == nil
}
