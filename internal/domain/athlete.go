package domain

import (
	"context"
	"fmt"
	"time"
)

// Protocol selects the cut strategy an athlete follows.
type Protocol int

const (
	ProtocolFatLoss Protocol = iota + 1
	ProtocolMakeWeight
	ProtocolHoldWeight
	ProtocolBuild
	ProtocolTournament
	ProtocolRecovery
)

var protocolNames = map[Protocol]string{
	ProtocolFatLoss:    "fat-loss",
	ProtocolMakeWeight: "make-weight",
	ProtocolHoldWeight: "hold-weight",
	ProtocolBuild:      "build",
	ProtocolTournament: "tournament",
	ProtocolRecovery:   "recovery",
}

// Valid reports whether p is in 1..6.
func (p Protocol) Valid() bool {
	_, ok := protocolNames[p]
	return ok
}

func (p Protocol) String() string {
	if n, ok := protocolNames[p]; ok {
		return n
	}
	return fmt.Sprintf("protocol(%d)", int(p))
}

const (
	// DefaultWeighInTime is used when the athlete has not set a time of day.
	DefaultWeighInTime = "07:00"
	// DefaultPracticeMinutes is the assumed length of a scheduled practice.
	DefaultPracticeMinutes = 90

	dayLayout  = "2006-01-02"
	timeLayout = "15:04"
)

// AthleteProfile holds what the engine needs to know about an athlete's cut.
type AthleteProfile struct {
	UserID               int64          `json:"userId" yaml:"-"`
	CurrentWeightLbs     float64        `json:"currentWeightLbs" yaml:"currentWeightLbs"`
	TargetWeightClassLbs float64        `json:"targetWeightClassLbs" yaml:"targetWeightClassLbs"`
	Protocol             Protocol       `json:"protocol" yaml:"protocol"`
	WeighInDate          string         `json:"weighInDate" yaml:"weighInDate"`
	WeighInTime          string         `json:"weighInTime" yaml:"weighInTime"`
	TimeZone             string         `json:"timeZone" yaml:"timeZone"`
	PracticeDays         []time.Weekday `json:"practiceDays" yaml:"practiceDays"`
	PracticeMinutes      int            `json:"practiceMinutes" yaml:"practiceMinutes"`
	UpdatedAt            time.Time      `json:"updatedAt" yaml:"-"`
}

// Location resolves the profile's time zone, falling back to UTC.
func (p AthleteProfile) Location() *time.Location {
	if p.TimeZone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// WeighInAt returns the weigh-in instant. ok is false when the date is unset
// or unparseable.
func (p AthleteProfile) WeighInAt() (time.Time, bool) {
	if p.WeighInDate == "" {
		return time.Time{}, false
	}
	tod := p.WeighInTime
	if tod == "" {
		tod = DefaultWeighInTime
	}
	t, err := time.ParseInLocation(dayLayout+" "+timeLayout, p.WeighInDate+" "+tod, p.Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PracticesOn reports whether a practice is scheduled on weekday d.
func (p AthleteProfile) PracticesOn(d time.Weekday) bool {
	for _, pd := range p.PracticeDays {
		if pd == d {
			return true
		}
	}
	return false
}

// SessionMinutes is the planned practice length.
func (p AthleteProfile) SessionMinutes() int {
	if p.PracticeMinutes <= 0 {
		return DefaultPracticeMinutes
	}
	return p.PracticeMinutes
}

// ProfileRepository is the port for athlete profile persistence.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID int64) (*AthleteProfile, error)
	UpsertProfile(ctx context.Context, p AthleteProfile) error
}
