package adapthttp

import (
	"net/http"

	"cutcoach/internal/domain"
)

type intakeEventRequest struct {
	Kind   domain.IntakeKind `json:"kind" validate:"required,oneof=water carbs protein"`
	Amount float64           `json:"amount" validate:"ne=0"`
}

func (s *Server) handleIntakeToday(w http.ResponseWriter, r *http.Request) {
	day, err := s.intake.GetToday(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"today": day.Day, "totals": day})
}

func (s *Server) handleIntakeEvent(w http.ResponseWriter, r *http.Request) {
	var body intakeEventRequest
	if err := s.decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := s.intake.RecordEvent(r.Context(), userFromContext(r).ID, body.Kind, body.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id})
}

func (s *Server) handleIntakeRecent(w http.ResponseWriter, r *http.Request) {
	limit := intQuery(r, "limit", 20)
	items, err := s.intake.ListRecent(r.Context(), userFromContext(r).ID, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleIntakeUndoLast(w http.ResponseWriter, r *http.Request) {
	undone, id, err := s.intake.UndoLast(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"undone": undone, "id": id})
}
