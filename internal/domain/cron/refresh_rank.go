package cron

import (
	"context"
	"time"

	"github.com/questx-lab/signal/internal/domain"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/dateutil"
	"github.com/questx-lab/signal/pkg/xcontext"
)

const refreshRankBatchSize = 500

// RefreshRankCronJob recomputes the rank of every user, so that a change of
// the rank tiers reaches users who earn no XP.
type RefreshRankCronJob struct {
	userRepo     repository.UserRepository
	userRegistry *domain.UserRegistry
}

func NewRefreshRankCronJob(
	userRepo repository.UserRepository,
	userRegistry *domain.UserRegistry,
) *RefreshRankCronJob {
	return &RefreshRankCronJob{
		userRepo:     userRepo,
		userRegistry: userRegistry,
	}
}

func (job *RefreshRankCronJob) Do(ctx context.Context) {
	for offset := 0; ; offset += refreshRankBatchSize {
		users, err := job.userRepo.GetList(ctx, offset, refreshRankBatchSize)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
			return
		}

		for i := range users {
			if err := job.userRegistry.RefreshRank(ctx, &users[i]); err != nil {
				xcontext.Logger(ctx).Warnf("Cannot refresh rank of user %s: %v", users[i].ID, err)
			}
		}

		if len(users) < refreshRankBatchSize {
			return
		}
	}
}

func (job *RefreshRankCronJob) RunNow() bool {
	return true
}

func (job *RefreshRankCronJob) Next() time.Time {
	return dateutil.NextDay(time.Now())
}
