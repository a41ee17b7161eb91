package eth

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/questx-lab/signal/config"
	"github.com/questx-lab/signal/pkg/numberutil"
	"github.com/questx-lab/signal/pkg/xcontext"
)

var ErrNoHealthyRPC = errors.New("no healthy rpc")

// EthClient is the subset of chain reads this service needs. It is an
// interface so registration tests can replace it.
type EthClient interface {
	Start(ctx context.Context)
	Close()

	BlockNumber(ctx context.Context) (uint64, error)

	// TransactionCount returns the number of transactions sent from address
	// at the latest block.
	TransactionCount(ctx context.Context, address string) (uint64, error)
}

// Default implementation of ETH client. Since eth RPC often unstable, this
// client keeps a list of RPCs, periodically drops the lagging ones and
// spreads calls over the rest.
type defaultEthClient struct {
	chain   string
	timeout time.Duration

	initialRpcs []string
	rpcs        []string
	clients     []*ethclient.Client

	lock sync.RWMutex
}

func NewEthClient(cfg config.EthConfigs) *defaultEthClient {
	return &defaultEthClient{
		chain:       cfg.Chain,
		timeout:     cfg.RpcTimeout,
		initialRpcs: cfg.Rpcs,
	}
}

func (c *defaultEthClient) Start(ctx context.Context) {
	c.updateRpcs(ctx)
	go c.loopCheck(ctx)
}

func (c *defaultEthClient) Close() {
	c.lock.Lock()
	defer c.lock.Unlock()

	for _, client := range c.clients {
		client.Close()
	}
	c.rpcs, c.clients = nil, nil
}

func (c *defaultEthClient) loopCheck(ctx context.Context) {
	for {
		// Sleep a random time between 5 & 10 minutes
		mins := rand.Intn(5) + 5
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(mins) * time.Minute):
		}

		c.updateRpcs(ctx)
	}
}

func (c *defaultEthClient) updateRpcs(ctx context.Context) {
	rpcs, clients := c.getRpcsHealthiness(ctx, c.initialRpcs)

	c.lock.Lock()
	oldClients := c.clients
	c.rpcs, c.clients = rpcs, clients
	c.lock.Unlock()

	for _, client := range oldClients {
		client.Close()
	}
}

func (c *defaultEthClient) getRpcsHealthiness(
	ctx context.Context, allRpcs []string,
) ([]string, []*ethclient.Client) {
	type healthyNode struct {
		client *ethclient.Client
		rpc    string
		height int64
	}

	expectedChainID := GetChainIntFromId(ctx, c.chain)
	nodes := make([]*healthyNode, 0)
	for _, rpc := range allRpcs {
		client, err := ethclient.DialContext(ctx, rpc)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot dial rpc %s: %v", rpc, err)
			continue
		}

		height, err := c.probe(ctx, client, expectedChainID != nil)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Rpc %s is unhealthy: %v", rpc, err)
			client.Close()
			continue
		}

		nodes = append(nodes, &healthyNode{client: client, rpc: rpc, height: height})
	}

	rpcs := make([]string, 0)
	clients := make([]*ethclient.Client, 0)
	if len(nodes) == 0 {
		xcontext.Logger(ctx).Errorf("No healthy rpc for chain %s", c.chain)
		return rpcs, clients
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].height > nodes[j].height
	})

	// Only select some nodes within a certain height from the median.
	height := nodes[len(nodes)/2].height
	for _, node := range nodes {
		if numberutil.AbsInt64(node.height-height) < 5 {
			rpcs = append(rpcs, node.rpc)
			clients = append(clients, node.client)
		} else {
			node.client.Close()
		}
	}

	xcontext.Logger(ctx).Infof("Healthy rpcs for chain %s: %v", c.chain, rpcs)
	return rpcs, clients
}

func (c *defaultEthClient) probe(ctx context.Context, client *ethclient.Client, checkChainID bool) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if checkChainID {
		chainID, err := client.ChainID(ctx)
		if err != nil {
			return 0, err
		}

		if expected := GetChainIntFromId(ctx, c.chain); chainID.Cmp(expected) != 0 {
			return 0, fmt.Errorf("chain id mismatch, expected %s but got %s", expected, chainID)
		}
	}

	height, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, err
	}

	return int64(height), nil
}

func (c *defaultEthClient) shuffle() ([]*ethclient.Client, []string) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	clients := make([]*ethclient.Client, len(c.clients))
	rpcs := make([]string, len(c.rpcs))
	for i, j := range rand.Perm(len(c.clients)) {
		clients[i], rpcs[i] = c.clients[j], c.rpcs[j]
	}

	return clients, rpcs
}

// execute runs f on the healthy clients in random order until one succeeds.
func (c *defaultEthClient) execute(
	ctx context.Context, f func(ctx context.Context, client *ethclient.Client) (any, error),
) (any, error) {
	c.lock.RLock()
	empty := len(c.clients) == 0
	c.lock.RUnlock()
	if empty {
		c.updateRpcs(ctx)
	}

	clients, rpcs := c.shuffle()
	if len(clients) == 0 {
		return nil, fmt.Errorf("%w for chain %s", ErrNoHealthyRPC, c.chain)
	}

	var lastErr error
	for i, client := range clients {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		ret, err := f(callCtx, client)
		cancel()
		if err == nil {
			return ret, nil
		}

		xcontext.Logger(ctx).Warnf("Call to rpc %s failed: %v", rpcs[i], err)
		lastErr = err
	}

	return nil, lastErr
}

func (c *defaultEthClient) BlockNumber(ctx context.Context) (uint64, error) {
	num, err := c.execute(ctx, func(ctx context.Context, client *ethclient.Client) (any, error) {
		return client.BlockNumber(ctx)
	})
	if err != nil {
		return 0, err
	}

	return num.(uint64), nil
}

func (c *defaultEthClient) TransactionCount(ctx context.Context, address string) (uint64, error) {
	if !common.IsHexAddress(address) {
		return 0, fmt.Errorf("invalid address %s", address)
	}

	nonce, err := c.execute(ctx, func(ctx context.Context, client *ethclient.Client) (any, error) {
		// A nil block number means the latest block.
		return client.NonceAt(ctx, common.HexToAddress(address), nil)
	})
	if err != nil {
		return 0, err
	}

	return nonce.(uint64), nil
}
