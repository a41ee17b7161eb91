// Package nonce keeps single-use wallet login challenges in the cache.
package nonce

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/signal/internal/common"
	"github.com/questx-lab/signal/pkg/crypto"
	"github.com/questx-lab/signal/pkg/xcontext"
	"github.com/questx-lab/signal/pkg/xredis"
)

const messageTemplate = "Welcome to %s! Please sign this message to continue. Your unique nonce: %s"

type Challenge struct {
	Nonce     string    `json:"nonce"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Store struct {
	redisClient xredis.Client
	now         func() time.Time
}

func NewStore(redisClient xredis.Client) *Store {
	return &Store{redisClient: redisClient, now: time.Now}
}

// Issue creates a new challenge for the wallet, replacing the previous one.
func (s *Store) Issue(ctx context.Context, walletAddress string) (*Challenge, error) {
	nonce, err := crypto.GenerateRandomHex(16)
	if err != nil {
		return nil, err
	}

	ttl := xcontext.Configs(ctx).Auth.NonceTTL
	challenge := Challenge{
		Nonce:     nonce,
		Message:   fmt.Sprintf(messageTemplate, xcontext.Configs(ctx).Project.Name, nonce),
		ExpiresAt: s.now().Add(ttl).UTC(),
	}

	key := common.RedisKeyNonce(walletAddress)
	if _, err := s.redisClient.Del(ctx, key); err != nil {
		return nil, err
	}

	if err := s.redisClient.SetObj(ctx, key, challenge, ttl); err != nil {
		return nil, err
	}

	return &challenge, nil
}

// Consume reports whether the presented nonce and message match the live
// challenge of the wallet. A found challenge is always removed, and only the
// caller which removed it can succeed.
func (s *Store) Consume(ctx context.Context, walletAddress, nonce, message string) (bool, error) {
	key := common.RedisKeyNonce(walletAddress)

	var challenge Challenge
	if err := s.redisClient.GetObj(ctx, key, &challenge); err != nil {
		if errors.Is(err, xredis.ErrNil) {
			return false, nil
		}

		return false, err
	}

	deleted, err := s.redisClient.Del(ctx, key)
	if err != nil {
		return false, err
	}

	if deleted == 0 {
		return false, nil
	}

	if challenge.Nonce != nonce || challenge.Message != message {
		return false, nil
	}

	if !s.now().Before(challenge.ExpiresAt) {
		return false, nil
	}

	return true, nil
}
