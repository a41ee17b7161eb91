// Package missionclaim decides how a mission completion is evaluated.
package missionclaim

import (
	"github.com/questx-lab/signal/internal/entity"
)

// Kind is the closed set of completion shapes. Callers switch over every
// value.
type Kind int

const (
	Standard Kind = iota
	DailyCheckin
	AllyThreshold
	OAuthLinked
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return "standard"
	case DailyCheckin:
		return "daily_checkin"
	case AllyThreshold:
		return "ally_threshold"
	case OAuthLinked:
		return "oauth_linked"
	}

	return "unknown"
}

// Classify returns the kind of mission. The daily check-in is identified by
// its reserved mission id.
func Classify(mission *entity.Mission, dailyCheckinID string) Kind {
	switch {
	case mission.MissionID == dailyCheckinID:
		return DailyCheckin
	case mission.RequiredAllies > 0:
		return AllyThreshold
	case mission.ActionType == entity.ActionOAuthConnect:
		return OAuthLinked
	default:
		return Standard
	}
}
