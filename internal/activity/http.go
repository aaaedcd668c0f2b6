package activity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/cache"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/telemetry"
)

// Handler serves the activity write paths. Every successful write
// invalidates the user's cached evaluations — the cache itself has no
// knowledge of write paths.
type Handler struct {
	repo   Repo
	cache  *cache.Cache         // optional
	events telemetry.Repository // optional
}

func NewHandler(repo Repo) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) SetCache(c *cache.Cache)           { h.cache = c }
func (h *Handler) SetEvents(ev telemetry.Repository) { h.events = ev }

func (h *Handler) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if h.events != nil {
		_ = h.events.RecordEvent(t, md)
	}
}

func (h *Handler) invalidate(userID string) {
	if h.cache != nil {
		h.cache.InvalidateUser(userID)
	}
}

// /api/meals
func (h *Handler) Meals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}

	var in Meal
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		writeErr(w, 400, `missing field "userId"`)
		return
	}

	if err := h.repo.LogMeal(r.Context(), in); err != nil {
		if errors.Is(err, ErrBadDate) {
			writeErr(w, 400, err.Error())
			return
		}
		writeErr(w, 500, err.Error())
		return
	}

	h.invalidate(in.UserID)
	h.record(telemetry.EventMealLogged, telemetry.EventMetadata{
		"user_id": in.UserID, "date": in.Date, "calories": in.Calories,
	})
	writeJSON(w, 201, map[string]any{"ok": true})
}

// /api/weighins
func (h *Handler) WeighIns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}

	var in WeighIn
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		writeErr(w, 400, `missing field "userId"`)
		return
	}
	if in.WeightKg <= 0 {
		writeErr(w, 400, "weightKg must be positive")
		return
	}

	if err := h.repo.LogWeighIn(r.Context(), in); err != nil {
		if errors.Is(err, ErrBadDate) {
			writeErr(w, 400, err.Error())
			return
		}
		writeErr(w, 500, err.Error())
		return
	}

	h.invalidate(in.UserID)
	h.record(telemetry.EventWeighInLogged, telemetry.EventMetadata{
		"user_id": in.UserID, "date": in.Date, "weight_kg": in.WeightKg,
	})
	writeJSON(w, 201, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func decodeJSON(r *http.Request, out any) error {
	return json.NewDecoder(r.Body).Decode(out)
}
