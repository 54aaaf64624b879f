// Package refresh generates the locally minted refresh credentials issued on
// rotation. The provider-issued refresh token and a rotated one are
// interchangeable opaque strings to the rest of the system.
package refresh

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generate returns a high-entropy opaque credential of length random bytes,
// hex encoded.
func Generate(length int) (string, error) {
	tokenBytes := make([]byte, length)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("[refresh.Generate] rand.Read: %w", err)
	}
	return hex.EncodeToString(tokenBytes), nil
}
