package plan

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/cache"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/model"
	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/telemetry"
)

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

// /api/plan — replacing a user's live targets retroactively changes every
// open task that resolves against the plan, so cached evaluations for the
// user must go.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeErr(w, 405, "method not allowed")
		return
	}

	var in struct {
		UserID   string  `json:"userId"`
		Calories float64 `json:"calories"`
		ProteinG float64 `json:"proteinG"`
		TDEE     float64 `json:"tdee"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		writeErr(w, 400, `missing field "userId"`)
		return
	}

	t := model.NutritionTargets{Calories: in.Calories, ProteinG: in.ProteinG, TDEE: in.TDEE}
	if err := h.repo.SetTargets(r.Context(), in.UserID, t); err != nil {
		writeErr(w, 500, err.Error())
		return
	}

	if h.cache != nil {
		h.cache.InvalidateUser(in.UserID)
	}
	if h.events != nil {
		_ = h.events.RecordEvent(telemetry.EventPlanUpdated, telemetry.EventMetadata{
			"user_id": in.UserID,
		})
	}
	writeJSON(w, 200, map[string]any{"ok": true, "targets": t})
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
