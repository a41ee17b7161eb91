package cron

import (
	"context"
	"time"

	"github.com/questx-lab/signal/pkg/blockchain/eth"
	"github.com/questx-lab/signal/pkg/xcontext"
)

const chainHeartbeatInterval = 5 * time.Minute

// ChainHeartbeatCronJob logs the latest block seen by the transaction count
// oracle. A stale height means every configured RPC is lagging.
type ChainHeartbeatCronJob struct {
	ethClient  eth.EthClient
	lastHeight uint64
}

func NewChainHeartbeatCronJob(ethClient eth.EthClient) *ChainHeartbeatCronJob {
	return &ChainHeartbeatCronJob{ethClient: ethClient}
}

func (job *ChainHeartbeatCronJob) Do(ctx context.Context) {
	height, err := job.ethClient.BlockNumber(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get block number: %v", err)
		return
	}

	if height <= job.lastHeight {
		xcontext.Logger(ctx).Warnf("Chain height is stuck at %d", height)
	} else {
		xcontext.Logger(ctx).Infof("Chain height is %d", height)
	}

	job.lastHeight = height
}

func (job *ChainHeartbeatCronJob) RunNow() bool {
	return true
}

func (job *ChainHeartbeatCronJob) Next() time.Time {
	return time.Now().Add(chainHeartbeatInterval)
}
