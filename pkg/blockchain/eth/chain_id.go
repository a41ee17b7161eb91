package eth

import (
	"context"
	"math/big"

	"github.com/questx-lab/signal/pkg/xcontext"
)

// GetChainIntFromId returns the EIP-155 chain id of a named chain, or nil if
// the chain is unknown.
func GetChainIntFromId(ctx context.Context, chain string) *big.Int {
	switch chain {
	case "eth":
		return big.NewInt(1)
	case "goerli-testnet":
		return big.NewInt(5)
	case "optimism":
		return big.NewInt(10)
	case "binance":
		return big.NewInt(56)
	case "binance-testnet":
		return big.NewInt(97)
	case "polygon":
		return big.NewInt(137)
	case "base":
		return big.NewInt(8453)
	case "arbitrum":
		return big.NewInt(42161)
	case "base-sepolia":
		return big.NewInt(84532)
	case "sepolia-testnet":
		return big.NewInt(11155111)

	default:
		xcontext.Logger(ctx).Warnf("Unknown chain: %s", chain)
		return nil
	}
}
