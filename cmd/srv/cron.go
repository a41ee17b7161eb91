package main

import (
	"github.com/questx-lab/signal/internal/domain/cron"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	s.migrateDB()
	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()
	s.loadEthClient()
	defer s.ethClient.Close()

	cron.NewCronJobManager(
		cron.NewRefreshRankCronJob(s.userRepo, s.userRegistry),
		cron.NewChainHeartbeatCronJob(s.ethClient),
	).Start(s.ctx)

	return nil
}
