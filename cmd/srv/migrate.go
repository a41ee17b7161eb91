package main

import (
	"fmt"

	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/migration"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cctx *cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	version := cctx.String("version")
	if version == "" {
		return migration.Migrate(s.ctx)
	}

	migrator, ok := migration.Migrators[version]
	if !ok {
		return fmt.Errorf("not found version %s", version)
	}

	return migrator(s.ctx)
}

func (s *srv) startSeed(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()

	return migration.Seed(s.ctx, repository.NewBadgeRepository(), repository.NewMissionRepository())
}
