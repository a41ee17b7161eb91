package entity

import (
	"database/sql"
)

type User struct {
	Base
	WalletAddress string         `gorm:"unique;size:42;not null"`
	Username      string         `gorm:"unique;size:64;not null"`
	Email         sql.NullString `gorm:"unique;size:255"`

	Rank         string
	XP           uint64
	ReferralCode string         `gorm:"unique;size:32;not null"`
	ReferredBy   sql.NullString `gorm:"index;size:36"`
	AlliesCount  int64

	// Profile
	CommanderName       string
	RankBadgeURL        string
	RankProgressPercent float64
	NextRank            string

	// System status
	AnomaliesResolved int64
	CigarBalance      float64

	// Linked X account
	XUserID      sql.NullString `gorm:"unique;size:64"`
	XUsername    string
	XConnectedAt sql.NullTime

	LastLoginAt        sql.NullTime
	LastDailyCheckinAt sql.NullTime
	IsActive           bool
}
