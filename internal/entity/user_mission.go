package entity

import (
	"database/sql"

	"github.com/questx-lab/signal/pkg/enum"
)

type UserMissionStatus string

var (
	UserMissionAvailable           = enum.New(UserMissionStatus("available"))
	UserMissionInProgress          = enum.New(UserMissionStatus("in_progress"))
	UserMissionCompleted           = enum.New(UserMissionStatus("completed"))
	UserMissionPendingVerification = enum.New(UserMissionStatus("pending_verification"))
	UserMissionFailed              = enum.New(UserMissionStatus("failed"))
)

type UserMission struct {
	Base
	UserID      string `gorm:"uniqueIndex:idx_user_missions_user_mission;size:36;not null"`
	MissionID   string `gorm:"uniqueIndex:idx_user_missions_user_mission;size:64;not null"`
	Status      UserMissionStatus
	CompletedAt sql.NullTime
}
