package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type session struct {
	UserID string `mapstructure:"user_id" json:"user_id"`
}

func newEngine(t *testing.T, secret string) Engine {
	engine, err := NewEngine(secret)
	require.NoError(t, err)
	return engine
}

func TestJWT(t *testing.T) {
	engine := newEngine(t, "secret")
	token, err := engine.Generate("0xabc", time.Minute, session{UserID: "user1"})
	require.NoError(t, err)

	var s session
	subject, err := engine.Verify(token, &s)
	require.NoError(t, err)
	require.Equal(t, "0xabc", subject)
	require.Equal(t, "user1", s.UserID)
}

func TestJWTExpiration(t *testing.T) {
	engine := newEngine(t, "secret")
	token, err := engine.Generate("0xabc", -time.Minute, session{UserID: "user1"})
	require.NoError(t, err)

	var s session
	_, err = engine.Verify(token, &s)
	require.ErrorIs(t, err, ErrExpired)
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := newEngine(t, "secret").Generate("0xabc", time.Minute, session{UserID: "user1"})
	require.NoError(t, err)

	var s session
	_, err = newEngine(t, "another").Verify(token, &s)
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrExpired)
}

func TestNewEngine_EmptySecret(t *testing.T) {
	engine, err := NewEngine("")
	require.ErrorIs(t, err, ErrEmptySecret)
	require.Nil(t, engine)
}
