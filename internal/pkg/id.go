package pkg

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateNewSessionID - returns a random 32-character hex identifier, used
// for both session cookies and game IDs.
func GenerateNewSessionID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}

	return hex.EncodeToString(buf)
}
