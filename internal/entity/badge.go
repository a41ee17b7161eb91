package entity

import "time"

type Badge struct {
	Base
	BadgeID     string `gorm:"unique;size:64;not null"`
	Name        string
	ImageURL    string
	Description string
	Criteria    string
}

type UserBadge struct {
	Base
	UserID     string `gorm:"uniqueIndex:idx_user_badges_user_badge;size:36;not null"`
	BadgeID    string `gorm:"uniqueIndex:idx_user_badges_user_badge;size:64;not null"`
	AcquiredAt time.Time
}
