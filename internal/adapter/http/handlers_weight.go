package adapthttp

import (
	"net/http"
	"time"

	"cutcoach/internal/app"
	"cutcoach/internal/domain"
)

type addLogRequest struct {
	Value           float64        `json:"value" validate:"gt=0"`
	Unit            string         `json:"unit" validate:"omitempty,oneof=lb kg"`
	Type            domain.LogType `json:"type" validate:"omitempty,oneof=morning pre-practice post-practice before-bed extra-before extra-after check-in"`
	Timestamp       *time.Time     `json:"timestamp"`
	DurationMinutes *int           `json:"durationMinutes" validate:"omitempty,gte=0"`
	SleepHours      *float64       `json:"sleepHours" validate:"omitempty,gte=0,lte=24"`
}

type editLogRequest struct {
	Value     *float64   `json:"value" validate:"omitempty,gt=0"`
	Unit      string     `json:"unit" validate:"omitempty,oneof=lb kg"`
	Timestamp *time.Time `json:"timestamp"`
}

// GET /api/weight/today
func (s *Server) handleWeightToday(w http.ResponseWriter, r *http.Request) {
	entry, today, err := s.weight.GetToday(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"today": today, "entry": entry})
}

// POST /api/weight/logs
func (s *Server) handleWeightAdd(w http.ResponseWriter, r *http.Request) {
	var body addLogRequest
	if err := s.decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.weight.AddLog(r.Context(), userFromContext(r).ID, app.AddLogInput{
		Value:           body.Value,
		Unit:            body.Unit,
		Type:            body.Type,
		Timestamp:       body.Timestamp,
		DurationMinutes: body.DurationMinutes,
		SleepHours:      body.SleepHours,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"entry": entry})
}

// GET /api/weight/logs?limit=
func (s *Server) handleWeightRecent(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 14)
	items, err := s.weight.ListRecent(r.Context(), userFromContext(r).ID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// PATCH /api/weight/logs/{id}
func (s *Server) handleWeightEdit(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body editLogRequest
	if err := s.decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	entry, err := s.weight.EditLog(r.Context(), userFromContext(r).ID, id, app.EditLogInput{
		Value:     body.Value,
		Unit:      body.Unit,
		Timestamp: body.Timestamp,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": entry})
}

// DELETE /api/weight/logs/{id}
func (s *Server) handleWeightDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.weight.DeleteLog(r.Context(), userFromContext(r).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

// POST /api/weight/undo-last
func (s *Server) handleWeightUndoLast(w http.ResponseWriter, r *http.Request) {
	deleted, entry, today, err := s.weight.UndoLast(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted, "today": today, "entry": entry})
}
