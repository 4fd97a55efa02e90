package helpers

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateID returns length random bytes, hex encoded.
func GenerateID(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
