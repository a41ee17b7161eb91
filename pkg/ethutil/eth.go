package ethutil

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

var addressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
var signatureRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{130}$`)

// IsAddress reports whether s is a 0x-prefixed 20-byte hex address.
func IsAddress(s string) bool {
	return addressRegex.MatchString(s)
}

// IsSignature reports whether s is a 0x-prefixed 65-byte hex signature.
func IsSignature(s string) bool {
	return signatureRegex.MatchString(s)
}

// NormalizeAddress returns the canonical lowercase form of an address.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// VerifySignature recovers the signer of an EIP-191 personal message and
// compares it with claimedAddress. A malformed signature returns false with
// the reason as error; it never panics.
func VerifySignature(claimedAddress, message, hexSignature string) (bool, error) {
	if !IsAddress(claimedAddress) {
		return false, fmt.Errorf("invalid address %q", claimedAddress)
	}

	signature, err := hexutil.Decode(hexSignature)
	if err != nil {
		return false, fmt.Errorf("cannot decode signature: %w", err)
	}

	if len(signature) != ethcrypto.SignatureLength {
		return false, fmt.Errorf("invalid signature length %d", len(signature))
	}

	// Transform yellow paper V from 27/28 to 0/1.
	if signature[ethcrypto.RecoveryIDOffset] == 27 || signature[ethcrypto.RecoveryIDOffset] == 28 {
		signature[ethcrypto.RecoveryIDOffset] -= 27
	}

	hash := accounts.TextHash([]byte(message))
	recovered, err := ethcrypto.SigToPub(hash, signature)
	if err != nil {
		return false, fmt.Errorf("cannot recover signature to address: %w", err)
	}

	recoveredAddr := ethcrypto.PubkeyToAddress(*recovered)
	return bytes.Equal(recoveredAddr.Bytes(), common.HexToAddress(claimedAddress).Bytes()), nil
}

// SignMessage signs message the way wallets implement personal_sign, with V
// in the 27/28 form.
func SignMessage(privateKey *ecdsa.PrivateKey, message string) (string, error) {
	if privateKey == nil {
		return "", errors.New("nil private key")
	}

	signature, err := ethcrypto.Sign(accounts.TextHash([]byte(message)), privateKey)
	if err != nil {
		return "", err
	}

	signature[ethcrypto.RecoveryIDOffset] += 27
	return hexutil.Encode(signature), nil
}
