package entity

import (
	"context"

	"github.com/questx-lab/signal/pkg/xcontext"
)

type Migration struct {
	Version int `gorm:"primaryKey;autoIncrement:false"`
}

// MigrateTable creates or updates every table to the latest schema.
func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&Mission{},
		&UserMission{},
		&Badge{},
		&UserBadge{},
		&WalletRegistration{},
		&Migration{},
	)
}
