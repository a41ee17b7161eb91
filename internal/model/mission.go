package model

type MissionAction struct {
	Label string `json:"label"`
	Type  string `json:"type"`
	URL   string `json:"url,omitempty"`
}

type Directive struct {
	ID               string        `json:"id"`
	MissionID        string        `json:"missionId_str"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Type             string        `json:"type"`
	RewardXP         uint64        `json:"rewardXp"`
	RewardBadge      *Badge        `json:"rewardBadge,omitempty"`
	Status           string        `json:"status"`
	Action           MissionAction `json:"action"`
	CurrentProgress  *int64        `json:"currentProgress,omitempty"`
	RequiredProgress *int64        `json:"requiredProgress,omitempty"`
	Prerequisites    []string      `json:"prerequisites,omitempty"`
}

type GetDirectivesRequest struct{}

type GetDirectivesResponse struct {
	Directives []Directive `json:"directives"`
}

type GetMissionSummaryRequest struct{}

type GetMissionSummaryResponse struct {
	CompletedMissions int64 `json:"completedMissions"`
	TotalMissions     int64 `json:"totalMissions"`
	ActiveSignals     int64 `json:"activeSignals"`
}

type CompleteMissionRequest struct {
	MissionID      string         `json:"missionId"`
	ValidationData map[string]any `json:"validation_data"`
}

type CompleteMissionResponse struct {
	Message      string  `json:"message"`
	XPGained     *uint64 `json:"xp_gained,omitempty"`
	BadgeAwarded *Badge  `json:"badge_awarded,omitempty"`
}
