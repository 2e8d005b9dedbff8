package util

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
)

const (
	tokenBytes     = 16
	authCodePrefix = "tupleap_"
	maskPrefixLen  = 12
)

// GenerateAuthCode mints an opaque credential: a recognizable prefix plus
// 128 bits from crypto/rand, so collisions are negligible and no coordination
// is needed for uniqueness under concurrent issuance.
func GenerateAuthCode() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return authCodePrefix + hex.EncodeToString(bytes), nil
}

func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// MaskCode hides the random portion of a code for listings; the plaintext is
// only ever returned once, at issuance.
func MaskCode(code string) string {
	if len(code) <= maskPrefixLen {
		return "****"
	}
	return code[:maskPrefixLen] + "****"
}
