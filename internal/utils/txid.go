package utils

import (
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// HashString returns the 0x-prefixed Keccak-256 of s. Inbound and outbound
// external txids and provisioned deposit addresses are deduplicated by
// this value.
func HashString(s string) string {
	return crypto.Keccak256Hash([]byte(s)).Hex()
}

// HashBytes returns the 0x-prefixed Keccak-256 of b.
func HashBytes(b []byte) string {
	return crypto.Keccak256Hash(b).Hex()
}

// IsHash reports a 0x-prefixed 32 byte hex string.
func IsHash(s string) bool {
	if len(s) != 66 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
