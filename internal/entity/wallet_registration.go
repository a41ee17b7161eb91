package entity

import "database/sql"

type WalletRegistration struct {
	Base
	WalletAddress         string `gorm:"unique;size:42;not null"`
	TransactionCount      uint64
	Points                uint64
	ReferralCode          string         `gorm:"unique;size:16;not null"`
	InvitedByReferralCode sql.NullString `gorm:"size:16"`
	ReferrerWalletAddress sql.NullString `gorm:"size:42"`
}
