package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"math/big"
)

// GenerateRandomHex returns n random bytes encoded as 2n hex characters.
func GenerateRandomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// GenerateRandomURLSafe returns n random bytes encoded with unpadded
// base64url, suitable for OAuth2 state values and PKCE verifiers.
func GenerateRandomURLSafe(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// PKCEChallenge derives the S256 code challenge of a PKCE verifier.
func PKCEChallenge(verifier string) string {
	hashed := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hashed[:])
}

const (
	UpperAlphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	Digits            = "0123456789"
)

// GenerateRandomFrom returns n characters drawn uniformly from charset.
func GenerateRandomFrom(charset string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[RandIntn(len(charset))]
	}
	return string(b)
}

// RandIntn returns a uniform random value in [0, n). It panics if got a
// non-positive parameter.
func RandIntn(n int) int {
	r, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(r.Int64())
}

// RandRange returns a uniform random value in [a, b). It panics if got a
// non-positive parameter or a>=b.
func RandRange(a, b int) int {
	return RandIntn(b-a) + a
}
