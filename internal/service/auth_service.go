// Package service owns the session lifecycle rules: credential validation,
// token pair issuance, refresh token rotation and sign-out.
package service

import (
	"context"
	"errors"

	"github.com/iliyamo/user-session-service/internal/model"
	"github.com/iliyamo/user-session-service/internal/repository"
	"github.com/iliyamo/user-session-service/internal/utils"
)

// ErrUnauthorized is the single externally visible failure for every bad
// credential: unknown email, wrong password, unknown user ID, missing stored
// refresh digest and digest mismatch all collapse into it. Keeping the
// branches indistinguishable prevents account enumeration.
var ErrUnauthorized = errors.New("unauthorized")

// UserStore is the account persistence contract this service consumes. The
// MySQL implementation lives in the repository package; tests substitute
// fakes.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateRefreshTokenHash(ctx context.Context, id uint64, digest *string) error
}

// Principal is the resolved identity attached to a request after a guard
// succeeds. It never carries secret material. Email is populated only on the
// credential and refresh paths, which read the account row; the access-token
// payload carries no email, so access-guarded requests see it empty and it is
// omitted from JSON.
type Principal struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// TokenPair is the pair of opaque signed strings returned to the caller on
// login and refresh. Neither is stored verbatim server-side; only the refresh
// token's digest is persisted.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService orchestrates login, refresh and sign-out over an injected
// store and token codec.
type AuthService struct {
	store UserStore
	codec *utils.TokenCodec
}

func NewAuthService(store UserStore, codec *utils.TokenCodec) *AuthService {
	return &AuthService{store: store, codec: codec}
}

// ValidateCredentials checks an email/password pair against the stored bcrypt
// digest and returns the account's public fields as a Principal.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (Principal, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Principal{}, ErrUnauthorized
	}
	return Principal{ID: u.ID, Name: u.DisplayName(), Email: u.Email}, nil
}

// Login issues a fresh access/refresh pair and persists the digest of the new
// refresh token, overwriting any previous one. That overwrite is the rotation
// point: the prior refresh token stops matching the stored digest the moment
// the update lands. If persistence fails the freshly issued pair is discarded
// and the old refresh token remains valid.
func (s *AuthService) Login(ctx context.Context, userID uint64, name string) (TokenPair, error) {
	pair, err := s.issuePair(userID, name)
	if err != nil {
		return TokenPair{}, err
	}
	digest := utils.HashRefreshToken(pair.RefreshToken)
	if err := s.store.UpdateRefreshTokenHash(ctx, userID, &digest); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Refresh grants a new pair and invalidates the refresh token just consumed.
// It is intentionally the same issuance+persist path as Login, which is what
// makes refresh tokens single-use.
func (s *AuthService) Refresh(ctx context.Context, userID uint64, name string) (TokenPair, error) {
	return s.Login(ctx, userID, name)
}

// SignOut clears the stored refresh digest so every previously issued refresh
// token for the account becomes permanently unusable. Outstanding access
// tokens keep their own expiry; no server-side access revocation list exists.
func (s *AuthService) SignOut(ctx context.Context, userID uint64) error {
	return s.store.UpdateRefreshTokenHash(ctx, userID, nil)
}

// ValidateRefreshToken confirms that the presented refresh token is the one
// outstanding generation for the account and returns the Principal. A user
// with no stored digest (never logged in, or signed out) is rejected exactly
// like a mismatch.
func (s *AuthService) ValidateRefreshToken(ctx context.Context, userID uint64, raw string) (Principal, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Principal{}, ErrUnauthorized
		}
		return Principal{}, err
	}
	if u.RefreshTokenHash == nil {
		return Principal{}, ErrUnauthorized
	}
	if !utils.RefreshTokenMatches(*u.RefreshTokenHash, raw) {
		return Principal{}, ErrUnauthorized
	}
	return Principal{ID: u.ID, Name: u.DisplayName(), Email: u.Email}, nil
}

func (s *AuthService) issuePair(userID uint64, name string) (TokenPair, error) {
	access, err := s.codec.Issue(userID, name, utils.AccessToken)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.codec.Issue(userID, name, utils.RefreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
