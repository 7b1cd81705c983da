package adapthttp

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"cutcoach/internal/app"
	"cutcoach/internal/engine"
)

// GET /api/insights?now=RFC3339
//
// now lets the athlete preview a simulated date. An incomplete profile is not
// an error for the client; the response carries configured=false instead.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if v := r.URL.Query().Get("now"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: now must be RFC3339", app.ErrValidation))
			return
		}
		now = t
	}

	out, err := s.insights.Get(r.Context(), userFromContext(r).ID, now)
	if errors.Is(err, engine.ErrNotConfigured) {
		writeJSON(w, http.StatusOK, map[string]any{"configured": false, "reason": err.Error()})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
