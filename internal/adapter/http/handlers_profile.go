package adapthttp

import (
	"net/http"
	"time"

	"cutcoach/internal/domain"
)

type profileRequest struct {
	CurrentWeightLbs     float64        `json:"currentWeightLbs" validate:"gte=0,lte=1000"`
	TargetWeightClassLbs float64        `json:"targetWeightClassLbs" validate:"gte=0,lte=1000"`
	Protocol             int            `json:"protocol" validate:"gte=0,lte=6"`
	WeighInDate          string         `json:"weighInDate" validate:"omitempty,datetime=2006-01-02"`
	WeighInTime          string         `json:"weighInTime" validate:"omitempty,datetime=15:04"`
	TimeZone             string         `json:"timeZone" validate:"omitempty,timezone"`
	PracticeDays         []time.Weekday `json:"practiceDays" validate:"dive,gte=0,lte=6"`
	PracticeMinutes      int            `json:"practiceMinutes" validate:"gte=0,lte=300"`
}

// GET /api/profile
func (s *Server) handleProfileGet(w http.ResponseWriter, r *http.Request) {
	p, err := s.profile.Get(r.Context(), userFromContext(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PUT /api/profile
func (s *Server) handleProfilePut(w http.ResponseWriter, r *http.Request) {
	var body profileRequest
	if err := s.decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := s.profile.Save(r.Context(), domain.AthleteProfile{
		UserID:               userFromContext(r).ID,
		CurrentWeightLbs:     body.CurrentWeightLbs,
		TargetWeightClassLbs: body.TargetWeightClassLbs,
		Protocol:             domain.Protocol(body.Protocol),
		WeighInDate:          body.WeighInDate,
		WeighInTime:          body.WeighInTime,
		TimeZone:             body.TimeZone,
		PracticeDays:         body.PracticeDays,
		PracticeMinutes:      body.PracticeMinutes,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
