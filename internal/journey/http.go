package journey

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func userParam(r *http.Request) string {
	return strings.TrimSpace(r.URL.Query().Get("user"))
}

// /api/journey?user=U
func (h *Handler) Journey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	userID := userParam(r)
	if userID == "" {
		writeErr(w, 400, `missing query param "user"`)
		return
	}

	view, err := h.svc.Journey(r.Context(), userID)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, view)
}

// /api/points?user=U
func (h *Handler) Points(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, 405, "method not allowed")
		return
	}
	userID := userParam(r)
	if userID == "" {
		writeErr(w, 400, `missing query param "user"`)
		return
	}

	st, err := h.svc.ensureState(r.Context(), userID)
	if err != nil {
		writeErr(w, 500, err.Error())
		return
	}
	writeJSON(w, 200, map[string]any{
		"userId":      userID,
		"points":      st.Points,
		"completions": st.Completions,
	})
}

// /api/tasks/{id}/progress and /api/tasks/{id}/complete
func (h *Handler) TasksSub(w http.ResponseWriter, r *http.Request) {
	tail := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	tail = strings.Trim(tail, "/")
	parts := strings.Split(tail, "/")
	if len(parts) != 2 {
		writeErr(w, 404, "not found")
		return
	}
	taskID := parts[0]

	switch parts[1] {
	case "progress":
		if r.Method != http.MethodGet {
			writeErr(w, 405, "method not allowed")
			return
		}
		userID := userParam(r)
		if userID == "" {
			writeErr(w, 400, `missing query param "user"`)
			return
		}
		ev, err := h.svc.TaskProgress(r.Context(), userID, taskID)
		if errors.Is(err, ErrTaskNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			writeErr(w, 500, err.Error())
			return
		}
		writeJSON(w, 200, ev)

	case "complete":
		if r.Method != http.MethodPost {
			writeErr(w, 405, "method not allowed")
			return
		}
		var in struct {
			UserID string `json:"userId"`
		}
		if err := decodeJSON(r, &in); err != nil {
			writeErr(w, 400, "bad json")
			return
		}
		if strings.TrimSpace(in.UserID) == "" {
			writeErr(w, 400, `missing field "userId"`)
			return
		}

		res, err := h.svc.CompleteTask(r.Context(), in.UserID, taskID)
		if errors.Is(err, ErrTaskNotFound) {
			writeErr(w, 404, "not found")
			return
		}
		if err != nil {
			// The completion endpoint is the one surface that reports
			// failure explicitly: it gates an irreversible point award.
			writeJSON(w, 500, map[string]any{"ok": false, "error": err.Error()})
			return
		}
		writeJSON(w, 200, res)

	default:
		writeErr(w, 404, "not found")
	}
}

// /api/tasks/evaluate — batch: {userId, taskIds[]} -> {taskId: canComplete}
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, 405, "method not allowed")
		return
	}
	var in struct {
		UserID  string   `json:"userId"`
		TaskIDs []string `json:"taskIds"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeErr(w, 400, "bad json")
		return
	}
	if strings.TrimSpace(in.UserID) == "" {
		writeErr(w, 400, `missing field "userId"`)
		return
	}

	writeJSON(w, 200, map[string]any{
		"results": h.svc.EvaluateTasks(r.Context(), in.UserID, in.TaskIDs),
	})
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
