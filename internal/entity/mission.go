package entity

import (
	"database/sql"

	"github.com/questx-lab/signal/pkg/enum"
)

type MissionCategory string

var (
	MissionSocial     = enum.New(MissionCategory("social"))
	MissionEngagement = enum.New(MissionCategory("engagement"))
	MissionCommunity  = enum.New(MissionCategory("community"))
	MissionSpecial    = enum.New(MissionCategory("special"))
)

type MissionActionType string

var (
	ActionExternalLink    = enum.New(MissionActionType("external_link"))
	ActionAPICall         = enum.New(MissionActionType("api_call"))
	ActionDisabled        = enum.New(MissionActionType("disabled"))
	ActionCompleted       = enum.New(MissionActionType("completed"))
	ActionOAuthConnect    = enum.New(MissionActionType("oauth_connect"))
	ActionClaimIfEligible = enum.New(MissionActionType("claim_if_eligible"))
)

type Mission struct {
	Base
	MissionID   string `gorm:"unique;size:64;not null"`
	Title       string
	Description string
	Category    MissionCategory

	RewardXP      uint64
	RewardBadgeID sql.NullString `gorm:"size:64"`

	ActionLabel string
	ActionType  MissionActionType
	ActionURL   string

	IsActive       bool
	RequiredAllies int64
	SortOrder      sql.NullInt64

	// Verification is the name of the policy deciding standard missions.
	Verification  string `gorm:"size:32"`
	Prerequisites Array[string]
}
