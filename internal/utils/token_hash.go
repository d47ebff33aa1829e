package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// HashRefreshToken returns the SHA-256 digest of a raw refresh token as a hex
// string. Only this digest is stored server-side; a stolen database row
// cannot be replayed as a refresh token. Refresh tokens are high-entropy
// signed strings, so no salt is needed, and bcrypt is unsuitable because it
// truncates input at 72 bytes.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// RefreshTokenMatches reports whether the raw token hashes to the stored
// digest. The comparison is constant-time and a malformed digest simply fails
// to match.
func RefreshTokenMatches(digest, raw string) bool {
	want, err := hex.DecodeString(digest)
	if err != nil || len(want) != sha256.Size {
		return false
	}
	got := sha256.Sum256([]byte(raw))
	return subtle.ConstantTimeCompare(got[:], want) == 1
}
