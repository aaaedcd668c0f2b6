// Package store is the SQLite persistence layer. It implements the
// activity, plan and journey-state repositories over one database file in
// WAL mode. The evaluation engine only ever reads through these
// interfaces; the write methods serve the HTTP logging endpoints.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/activity"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/journey"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/plan"
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database and initializes the schema.
func New(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

// retryOnContention wraps write operations to ride out transient SQLite
// errors (BUSY, LOCKED) under concurrent access.
func retryOnContention(fn func() error) error {
	return retryOp(defaultRetryConfig, fn)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meals (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		date       TEXT NOT NULL,
		calories   REAL NOT NULL DEFAULT 0,
		protein_g  REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, date);

	CREATE TABLE IF NOT EXISTS weigh_ins (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		date       TEXT NOT NULL,
		weight_kg  REAL NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_weigh_ins_user_date ON weigh_ins(user_id, date);

	CREATE TABLE IF NOT EXISTS plans (
		user_id    TEXT PRIMARY KEY,
		calories   REAL NOT NULL DEFAULT 0,
		protein_g  REAL NOT NULL DEFAULT 0,
		tdee       REAL NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS journey_states (
		user_id           TEXT PRIMARY KEY,
		stage_id          TEXT NOT NULL,
		stage_unlocked_at TEXT NOT NULL,
		points            INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS completions (
		user_id      TEXT NOT NULL,
		task_id      TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		points       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (user_id, task_id)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ---------------------------------------------------------------------------
// activity.Repo
// ---------------------------------------------------------------------------

func (s *Store) LogMeal(ctx context.Context, m activity.Meal) error {
	if !activity.ValidDay(m.Date) {
		return activity.ErrBadDate
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO meals (user_id, date, calories, protein_g, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			m.UserID, m.Date, m.Calories, m.ProteinG, now,
		)
		return err
	})
}

func (s *Store) LogWeighIn(ctx context.Context, w activity.WeighIn) error {
	if !activity.ValidDay(w.Date) {
		return activity.ErrBadDate
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO weigh_ins (user_id, date, weight_kg, created_at)
			 VALUES (?, ?, ?, ?)`,
			w.UserID, w.Date, w.WeightKg, now,
		)
		return err
	})
}

func (s *Store) MealsSince(ctx context.Context, userID, sinceDay string) ([]activity.Meal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, date, calories, protein_g FROM meals
		 WHERE user_id = ? AND date >= ?
		 ORDER BY date ASC, id ASC`,
		userID, sinceDay,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeals(rows)
}

func (s *Store) MealsOn(ctx context.Context, userID, day string) ([]activity.Meal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, date, calories, protein_g FROM meals
		 WHERE user_id = ? AND date = ?
		 ORDER BY id ASC`,
		userID, day,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeals(rows)
}

func (s *Store) CountMealsSince(ctx context.Context, userID, sinceDay string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM meals WHERE user_id = ? AND date >= ?`,
		userID, sinceDay,
	).Scan(&n)
	return n, err
}

func (s *Store) WeighInsSince(ctx context.Context, userID, sinceDay string) ([]activity.WeighIn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, date, weight_kg FROM weigh_ins
		 WHERE user_id = ? AND date >= ?
		 ORDER BY date ASC, id ASC`,
		userID, sinceDay,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []activity.WeighIn
	for rows.Next() {
		var w activity.WeighIn
		if err := rows.Scan(&w.UserID, &w.Date, &w.WeightKg); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) CountWeighInsSince(ctx context.Context, userID, sinceDay string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM weigh_ins WHERE user_id = ? AND date >= ?`,
		userID, sinceDay,
	).Scan(&n)
	return n, err
}

func (s *Store) HasWeighIn(ctx context.Context, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM weigh_ins WHERE user_id = ?)`, userID,
	).Scan(&n)
	return n != 0, err
}

func scanMeals(rows *sql.Rows) ([]activity.Meal, error) {
	var out []activity.Meal
	for rows.Next() {
		var m activity.Meal
		if err := rows.Scan(&m.UserID, &m.Date, &m.Calories, &m.ProteinG); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// plan.Repo
// ---------------------------------------------------------------------------

func (s *Store) Targets(ctx context.Context, userID string) (model.NutritionTargets, error) {
	var t model.NutritionTargets
	err := s.db.QueryRowContext(ctx,
		`SELECT calories, protein_g, tdee FROM plans WHERE user_id = ?`, userID,
	).Scan(&t.Calories, &t.ProteinG, &t.TDEE)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NutritionTargets{}, plan.ErrNotFound
	}
	return t, err
}

func (s *Store) SetTargets(ctx context.Context, userID string, t model.NutritionTargets) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	return retryOnContention(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO plans (user_id, calories, protein_g, tdee, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(user_id) DO UPDATE SET
			   calories = excluded.calories,
			   protein_g = excluded.protein_g,
			   tdee = excluded.tdee,
			   updated_at = excluded.updated_at`,
			userID, t.Calories, t.ProteinG, t.TDEE, now,
		)
		return err
	})
}

// ---------------------------------------------------------------------------
// journey.StateRepo
// ---------------------------------------------------------------------------

func (s *Store) Ensure(ctx context.Context, userID, stageID string, unlockedAt time.Time) (journey.UserState, error) {
	err := retryOnContention(func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO journey_states (user_id, stage_id, stage_unlocked_at, points)
			 VALUES (?, ?, ?, 0)
			 ON CONFLICT(user_id) DO NOTHING`,
			userID, stageID, unlockedAt.UTC().Format(time.RFC3339Nano),
		)
		return err
	})
	if err != nil {
		return journey.UserState{}, err
	}
	return s.Get(ctx, userID)
}

func (s *Store) Get(ctx context.Context, userID string) (journey.UserState, error) {
	st := journey.UserState{UserID: userID, Completions: map[string]journey.Completion{}}
	var unlockedStr string
	err := s.db.QueryRowContext(ctx,
		`SELECT stage_id, stage_unlocked_at, points FROM journey_states WHERE user_id = ?`,
		userID,
	).Scan(&st.StageID, &unlockedStr, &st.Points)
	if err != nil {
		return journey.UserState{}, err
	}
	st.StageUnlockedAt, err = time.Parse(time.RFC3339Nano, unlockedStr)
	if err != nil {
		return journey.UserState{}, fmt.Errorf("parse stage_unlocked_at for %s: %w", userID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT task_id, completed_at, points FROM completions WHERE user_id = ?`, userID,
	)
	if err != nil {
		return journey.UserState{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var c journey.Completion
		var atStr string
		if err := rows.Scan(&c.TaskID, &atStr, &c.Points); err != nil {
			return journey.UserState{}, err
		}
		c.CompletedAt, err = time.Parse(time.RFC3339Nano, atStr)
		if err != nil {
			return journey.UserState{}, fmt.Errorf("parse completed_at for %s: %w", c.TaskID, err)
		}
		st.Completions[c.TaskID] = c
	}
	return st, rows.Err()
}

func (s *Store) MarkCompleted(ctx context.Context, userID string, c journey.Completion) error {
	return retryOnContention(func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

		res, err := tx.ExecContext(ctx,
			`INSERT INTO completions (user_id, task_id, completed_at, points)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT(user_id, task_id) DO NOTHING`,
			userID, c.TaskID, c.CompletedAt.UTC().Format(time.RFC3339Nano), c.Points,
		)
		if err != nil {
			return err
		}
		// Only award points when the completion row was actually inserted,
		// so re-completion never double-awards.
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE journey_states SET points = points + ? WHERE user_id = ?`,
				c.Points, userID,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

func (s *Store) AdvanceStage(ctx context.Context, userID, stageID string, unlockedAt time.Time) error {
	return retryOnContention(func() error {
		_, err := s.db.ExecContext(ctx,
			`UPDATE journey_states SET stage_id = ?, stage_unlocked_at = ? WHERE user_id = ?`,
			stageID, unlockedAt.UTC().Format(time.RFC3339Nano), userID,
		)
		return err
	})
}
