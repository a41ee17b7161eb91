package ethutil

import (
	"strings"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestVerifySignature(t *testing.T) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	address := ethcrypto.PubkeyToAddress(key.PublicKey).Hex()

	msg := "Welcome! Your unique nonce: 0123456789abcdef0123456789abcdef"
	signature, err := SignMessage(key, msg)
	require.NoError(t, err)
	require.True(t, IsSignature(signature))

	// Address comparison is case-insensitive.
	ok, err := VerifySignature(strings.ToLower(address), msg, signature)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = VerifySignature(address, msg, signature)
	require.NoError(t, err)
	require.True(t, ok)

	// Another message.
	ok, err = VerifySignature(address, msg+"!", signature)
	require.NoError(t, err)
	require.False(t, ok)

	// Another signer.
	otherKey, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	otherSignature, err := SignMessage(otherKey, msg)
	require.NoError(t, err)
	ok, err = VerifySignature(address, msg, otherSignature)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifySignature_Malformed(t *testing.T) {
	address := "0x" + strings.Repeat("a", 40)

	ok, err := VerifySignature(address, "msg", "not-hex")
	require.Error(t, err)
	require.False(t, ok)

	ok, err = VerifySignature(address, "msg", "0x1234")
	require.Error(t, err)
	require.False(t, ok)

	ok, err = VerifySignature("0x1234", "msg", "0x"+strings.Repeat("0", 130))
	require.Error(t, err)
	require.False(t, ok)

	// Right length but not a point on the curve.
	ok, _ = VerifySignature(address, "msg", "0x"+strings.Repeat("f", 130))
	require.False(t, ok)
}

func TestIsAddress(t *testing.T) {
	require.True(t, IsAddress("0x"+strings.Repeat("aB", 20)))
	require.False(t, IsAddress(strings.Repeat("a", 42)))
	require.False(t, IsAddress("0x"+strings.Repeat("g", 40)))
	require.False(t, IsAddress("0x"+strings.Repeat("a", 39)))
	require.Equal(t, "0xabcd", NormalizeAddress(" 0xABcd "))
}
