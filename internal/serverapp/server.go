// Package serverapp assembles the GymBro API: repositories, evaluation
// engine, journey service, cache, telemetry and the HTTP routes.
package serverapp

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/activity"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/cache"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/config"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/engine"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/httpmw"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/journey"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/plan"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/store"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/telemetry"
)

type Options struct {
	Config *config.Config
	Logger *log.Logger
	Clock  engine.Clock
	// Stages overrides the seeded journey definition (tests).
	Stages []journey.Stage
}

// App is the wired service. Close releases the SQLite store, when one is
// open.
type App struct {
	Handler http.Handler
	Service *journey.Service

	store *store.Store
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = engine.RealClock{}
	}
	cfg := opts.Config

	app := &App{}

	// Repositories: one SQLite file when configured, in-memory otherwise.
	var (
		activityRepo activity.Repo
		planRepo     plan.Repo
		stateRepo    journey.StateRepo
	)
	if cfg.Server.DBFile != "" {
		if err := os.MkdirAll(cfg.Server.DataDir, 0o755); err != nil {
			return nil, err
		}
		st, err := store.New(filepath.Join(cfg.Server.DataDir, cfg.Server.DBFile))
		if err != nil {
			return nil, err
		}
		app.store = st
		activityRepo, planRepo, stateRepo = st, st, st
	} else {
		activityRepo = activity.NewMemoryRepo()
		planRepo = plan.NewMemoryRepo()
		stateRepo = journey.NewMemoryStateRepo()
	}

	var progressCache *cache.Cache
	if !cfg.Cache.Disabled {
		progressCache = cache.New(time.Duration(cfg.Cache.TTLSeconds) * time.Second)
	}
	events := telemetry.NewMemoryRepository()

	evaluator := engine.NewEvaluator(activityRepo, planRepo, opts.Clock, cfg.Engine, opts.Logger)

	defs := journey.NewMemoryRepo()
	stages := opts.Stages
	if stages == nil {
		stages = journey.DefaultStages()
	}
	if err := defs.Seed(context.Background(), stages); err != nil {
		return nil, err
	}

	svc := journey.NewService(defs, stateRepo, evaluator, progressCache, events, opts.Logger)
	app.Service = svc

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "gymbro",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := activityRepo.CountMealsSince(r.Context(), "readyz", ""); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "activity storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "gymbro",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	activityHandler := activity.NewHandler(activityRepo)
	activityHandler.SetCache(progressCache)
	activityHandler.SetEvents(events)
	mux.HandleFunc("/api/meals", activityHandler.Meals)
	mux.HandleFunc("/api/weighins", activityHandler.WeighIns)

	planHandler := plan.NewHandler(planRepo)
	planHandler.SetCache(progressCache)
	planHandler.SetEvents(events)
	mux.HandleFunc("/api/plan", planHandler.Update)

	journeyHandler := journey.NewHandler(svc)
	mux.HandleFunc("/api/journey", journeyHandler.Journey)
	mux.HandleFunc("/api/points", journeyHandler.Points)
	mux.HandleFunc("/api/tasks/evaluate", journeyHandler.Evaluate)
	mux.HandleFunc("/api/tasks/", journeyHandler.TasksSub)

	mux.HandleFunc("/api/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		since := time.Now().UTC().AddDate(0, 0, -7)
		evs, err := events.GetEvents(since, nil)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		stats, err := telemetry.CalculateStats(evs, since)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})

	app.Handler = httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	)
	return app, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
