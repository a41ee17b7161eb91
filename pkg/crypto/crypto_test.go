package crypto

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomHex(t *testing.T) {
	s, err := GenerateRandomHex(16)
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^[a-f0-9]{32}$`), s)
}

func TestPKCEChallenge(t *testing.T) {
	// Example from RFC 7636, appendix B.
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	require.Equal(t, "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM", PKCEChallenge(verifier))
}

func TestGenerateRandomFrom(t *testing.T) {
	s := GenerateRandomFrom(UpperAlphanumeric, 8)
	require.Regexp(t, regexp.MustCompile(`^[A-Z0-9]{8}$`), s)
}

func TestRandRange(t *testing.T) {
	for i := 0; i < 100; i++ {
		n := RandRange(20, 60)
		require.GreaterOrEqual(t, n, 20)
		require.Less(t, n, 60)
	}
}
