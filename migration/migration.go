package migration

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/pkg/xcontext"
	"gorm.io/gorm"
)

type Migrator func(context.Context) error

// Migrators is indexed by the zero padded version, it is used to rerun a
// single version by hand.
var Migrators = map[string]Migrator{
	"0000": migrate0000,
	"0001": migrate0001,
}

// Migrate runs every version newer than the latest applied one. Each version
// is recorded in the migrations table once it succeeds.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	var latest entity.Migration
	err := xcontext.DB(ctx).Order("version DESC").Take(&latest).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	applied := -1
	if err == nil {
		applied = latest.Version
	}

	versions := []string{}
	for version := range Migrators {
		versions = append(versions, version)
	}
	sort.Strings(versions)

	for _, version := range versions {
		var number int
		if _, err := fmt.Sscanf(version, "%d", &number); err != nil {
			return fmt.Errorf("invalid migration version %s", version)
		}

		if number <= applied {
			continue
		}

		xcontext.Logger(ctx).Infof("Migrating database to version %s", version)
		if err := Migrators[version](ctx); err != nil {
			return fmt.Errorf("cannot migrate to version %s: %w", version, err)
		}

		if err := xcontext.DB(ctx).Create(&entity.Migration{Version: number}).Error; err != nil {
			return err
		}
	}

	return nil
}
