package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/questx-lab/signal/internal/domain"
	"github.com/questx-lab/signal/internal/domain/rank"
	"github.com/questx-lab/signal/internal/entity"
	"github.com/questx-lab/signal/internal/repository"
	"github.com/questx-lab/signal/pkg/testutil"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func TestRefreshRankCronJob(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.InsertUsers(ctx)

	rankTable, err := rank.NewTable(xcontext.Configs(ctx).Rank.Tiers)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository()
	require.NoError(t, xcontext.DB(ctx).Model(&entity.User{}).
		Where("id=?", testutil.User1ID).Update("xp", 1500).Error)

	job := NewRefreshRankCronJob(userRepo, domain.NewUserRegistry(userRepo, rankTable))
	require.True(t, job.RunNow())
	require.True(t, job.Next().After(time.Now()))
	job.Do(ctx)

	user1, err := userRepo.GetByID(ctx, testutil.User1ID)
	require.NoError(t, err)
	require.Equal(t, "Strategist", user1.Rank)
	require.Equal(t, "Commander", user1.NextRank)

	user2, err := userRepo.GetByID(ctx, testutil.User2ID)
	require.NoError(t, err)
	require.Equal(t, "Observer", user2.Rank)
	require.Equal(t, "Ally", user2.NextRank)
}

func TestChainHeartbeatCronJob(t *testing.T) {
	ctx := testutil.MockContext()

	heights := []uint64{10, 10, 12}
	calls := 0
	job := NewChainHeartbeatCronJob(&testutil.MockEthClient{
		BlockNumberFunc: func(ctx context.Context) (uint64, error) {
			if calls == len(heights) {
				return 0, errors.New("rpc down")
			}

			calls++
			return heights[calls-1], nil
		},
	})

	for i := 0; i < 4; i++ {
		job.Do(ctx)
	}

	require.Equal(t, uint64(12), job.lastHeight)
}

type countJob struct {
	count atomic.Int32
}

func (j *countJob) Do(context.Context) { j.count.Add(1) }
func (j *countJob) RunNow() bool       { return true }
func (j *countJob) Next() time.Time    { return time.Now().Add(time.Hour) }

func TestCronJobManager(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.MockContext())

	job := &countJob{}
	manager := NewCronJobManager(job)

	done := make(chan struct{})
	go func() {
		manager.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return job.count.Load() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("manager did not stop")
	}

	require.Equal(t, int32(1), job.count.Load())
}
