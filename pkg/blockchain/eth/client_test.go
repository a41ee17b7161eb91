package eth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/questx-lab/signal/config"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []any           `json:"params"`
}

func newRPCServer(t *testing.T, chainID string, height uint64, counts map[string]uint64) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var result string
		switch req.Method {
		case "eth_chainId":
			result = chainID
		case "eth_blockNumber":
			result = fmt.Sprintf("0x%x", height)
		case "eth_getTransactionCount":
			address := strings.ToLower(req.Params[0].(string))
			result = fmt.Sprintf("0x%x", counts[address])
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"jsonrpc":"2.0","id":%s,"result":"%s"}`, req.ID, result)
	}))

	t.Cleanup(server.Close)
	return server
}

func TestEthClient_TransactionCount(t *testing.T) {
	address := "0x00000000000000000000000000000000000000aa"
	good := newRPCServer(t, "0x2105", 100, map[string]uint64{address: 7})
	wrongChain := newRPCServer(t, "0x1", 100, map[string]uint64{address: 99})

	client := NewEthClient(config.EthConfigs{
		Chain:      "base",
		Rpcs:       []string{good.URL, wrongChain.URL},
		RpcTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	client.Start(ctx)
	defer client.Close()

	require.Len(t, client.rpcs, 1)
	require.Equal(t, good.URL, client.rpcs[0])

	for i := 0; i < 5; i++ {
		n, err := client.TransactionCount(ctx, address)
		require.NoError(t, err)
		require.Equal(t, uint64(7), n)
	}

	n, err := client.TransactionCount(ctx, "0x00000000000000000000000000000000000000bb")
	require.NoError(t, err)
	require.Equal(t, uint64(0), n)

	height, err := client.BlockNumber(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(100), height)

	_, err = client.TransactionCount(ctx, "not-an-address")
	require.Error(t, err)
}

func TestEthClient_LaggingRpcIsDropped(t *testing.T) {
	a := newRPCServer(t, "0x2105", 1000, nil)
	b := newRPCServer(t, "0x2105", 1001, nil)
	lagging := newRPCServer(t, "0x2105", 10, nil)

	client := NewEthClient(config.EthConfigs{
		Chain:      "base",
		Rpcs:       []string{a.URL, b.URL, lagging.URL},
		RpcTimeout: 5 * time.Second,
	})
	client.updateRpcs(context.Background())
	defer client.Close()

	require.ElementsMatch(t, []string{a.URL, b.URL}, client.rpcs)
}

func TestEthClient_NoHealthyRpc(t *testing.T) {
	client := NewEthClient(config.EthConfigs{Chain: "base", RpcTimeout: time.Second})

	_, err := client.TransactionCount(context.Background(), "0x00000000000000000000000000000000000000aa")
	require.ErrorIs(t, err, ErrNoHealthyRPC)
}
