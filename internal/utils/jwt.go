package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only error Verify returns for a token that fails
// validation. Signature mismatch, malformed structure, wrong signing method
// and expiry are deliberately indistinguishable so the codec cannot be used
// as an oracle.
var ErrInvalidToken = errors.New("invalid token")

// TokenKind selects which secret and lifetime a token is issued or verified
// with. Access and refresh tokens are never interchangeable: a token signed
// with one kind's secret fails verification under the other.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

// TokenConfig carries the signing key material and lifetime for one token
// kind. The two kinds are configured independently so either secret can be
// rotated without invalidating the other family.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// Claims is the payload embedded in both token kinds: the subject holds the
// user ID, Name the display name.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// UserID parses the subject claim back into a numeric user ID.
func (c *Claims) UserID() (uint64, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// TokenCodec signs and verifies HS256 JWTs for both kinds.
type TokenCodec struct {
	access  TokenConfig
	refresh TokenConfig
}

func NewTokenCodec(access, refresh TokenConfig) *TokenCodec {
	return &TokenCodec{access: access, refresh: refresh}
}

func (tc *TokenCodec) config(kind TokenKind) TokenConfig {
	if kind == RefreshToken {
		return tc.refresh
	}
	return tc.access
}

// Issue signs a compact token for the given user and kind. The expiry comes
// from the kind's configured TTL. A random jti claim makes every issued token
// distinct even when two are signed within the same second, so a rotated
// refresh token never collides with the one it replaces.
func (tc *TokenCodec) Issue(userID uint64, name string, kind TokenKind) (string, error) {
	cfg := tc.config(kind)
	jti, err := randomHex(8)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
		Name: name,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(cfg.Secret))
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Verify checks the signature and expiry of a token against the given kind's
// secret and returns its claims. Any failure is reported as ErrInvalidToken.
func (tc *TokenCodec) Verify(raw string, kind TokenKind) (*Claims, error) {
	cfg := tc.config(kind)
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
