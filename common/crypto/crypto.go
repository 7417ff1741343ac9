package crypto

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // FXDX signs with HMAC-SHA1
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
)

// HashSHA1 selects the SHA-1 HMAC digest
const HashSHA1 = iota

// Public crypto errors
var (
	ErrEmptyKey            = errors.New("hmac key is empty")
	ErrUnsupportedHashType = errors.New("unsupported hash type")
)

// HexEncodeToString takes in a hexadecimal byte array and returns a string
func HexEncodeToString(input []byte) string {
	return hex.EncodeToString(input)
}

// GetHMAC returns a keyed-hash message authentication code using the desired
// hashtype
func GetHMAC(hashType int, input, key []byte) ([]byte, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	var hasher func() hash.Hash
	switch hashType {
	case HashSHA1:
		hasher = sha1.New
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedHashType, hashType)
	}

	h := hmac.New(hasher, key)
	if _, err := h.Write(input); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
