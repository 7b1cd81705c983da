package adapthttp

import (
	"net/http"

	"cutcoach/internal/domain"
)

func (s *Server) handleChartsDaily(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	days := intQuery(r, "days", 90)
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = domain.UnitLb
	}

	points, err := s.charts.GetDaily(r.Context(), user.ID, days, unit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	today := ""
	if len(points) > 0 {
		today = points[len(points)-1].Day
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":  len(points),
		"unit":  unit,
		"today": today,
		"items": points,
	})
}
