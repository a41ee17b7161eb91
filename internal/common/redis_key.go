package common

import (
	"fmt"
	"strings"
)

func RedisKeyNonce(walletAddress string) string {
	return fmt.Sprintf("nonce:%s", strings.ToLower(walletAddress))
}

func RedisKeyXOAuthState(state string) string {
	return fmt.Sprintf("x_oauth_state:%s", state)
}

func RedisKeyWalletData(walletAddress string) string {
	return fmt.Sprintf("wallet_data:%s", strings.ToLower(walletAddress))
}
