package cryptoutil

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// NewRefreshToken generates a 32-byte random refresh token, url-safe
// base64 encoded, per the expiring-token design.
func NewRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptoutil: generating refresh token: %w", err)
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(buf), nil
}

// IntegrityHash computes SHA-256 over an audit entry's canonical form,
// recomputable later for tamper detection.
func IntegrityHash(canonicalForm string) string {
	sum := sha256.Sum256([]byte(canonicalForm))
	return hex.EncodeToString(sum[:])
}
