package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/band-catalog/internal/config"
	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
	"github.com/iliyamo/band-catalog/internal/utils"
)

// CredentialStore is the persistence surface the token manager needs.
// *repository.UserRepo satisfies it. UpdateCredentials must write the
// refresh hash, its expiry and (optionally) the last-login timestamp
// in one atomic operation; the token manager never composes separate
// writes for a login event.
type CredentialStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateCredentials(ctx context.Context, userID uint64, refreshTokenHash *string, expiresAt *time.Time, touchLastLogin bool) error
}

// TokenPair bundles a freshly issued access/refresh pair with the user
// it belongs to.
type TokenPair struct {
	User    model.User
	Access  utils.AccessToken
	Refresh utils.RefreshToken
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// AuthService is the session token manager: it authenticates users,
// issues access/refresh pairs, and rotates refresh tokens. Every
// issued refresh token overwrites the previous one through a single
// credential-store write, so refresh tokens are single-use and
// concurrent logins cannot interleave into a half-rotated state.
type AuthService struct {
	users          CredentialStore
	accessSecret   string
	refreshSecret  string
	accessTTLMin   int
	refreshTTLDays int
	bcryptCost     int
	dummyHash      string
}

// NewAuthService constructs an AuthService over the given credential
// store and configuration.
func NewAuthService(users CredentialStore, cfg config.Config) *AuthService {
	// Pre-compute a hash to verify against when the username is
	// unknown, so the two rejection paths take comparable time.
	dummy, _ := utils.HashPassword("invalid", cfg.BcryptCost)
	return &AuthService{
		users:          users,
		accessSecret:   cfg.JWTSecret,
		refreshSecret:  cfg.JWTRefreshSecret,
		accessTTLMin:   cfg.AccessTTLMin,
		refreshTTLDays: cfg.RefreshTTLDays,
		bcryptCost:     cfg.BcryptCost,
		dummyHash:      dummy,
	}
}

// Authenticate verifies a username/password pair. Unknown usernames
// and wrong passwords both return ErrInvalidCredentials; the caller
// cannot tell which it was.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.VerifyPassword(s.dummyHash, password)
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, password) {
		return model.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a user and issues the first token pair. Username
// and email collisions surface as repository.ErrUsernameExists /
// ErrEmailExists.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (TokenPair, error) {
	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return TokenPair{}, err
	}
	u := model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		return TokenPair{}, err
	}
	return s.IssueTokens(ctx, u)
}

// IssueTokens generates a new access/refresh pair for the user and
// rotates the stored credentials in one write: the SHA-256 digest of
// the new refresh token, the expiry mirrored from its exp claim, and
// the last-login timestamp all land in the same statement. Whatever
// refresh token was stored before is invalidated by being overwritten.
func (s *AuthService) IssueTokens(ctx context.Context, u model.User) (TokenPair, error) {
	access, err := utils.NewAccessToken(s.accessSecret, u.ID, u.Username, u.Email, s.accessTTLMin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := utils.NewRefreshToken(s.refreshSecret, u.ID, s.refreshTTLDays)
	if err != nil {
		return TokenPair{}, err
	}
	hash := utils.HashRefreshRaw(refresh.Token)
	exp := refresh.Exp
	if err := s.users.UpdateCredentials(ctx, u.ID, &hash, &exp, true); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{User: u, Access: access, Refresh: refresh}, nil
}

// RefreshTokens validates a presented refresh token and, on success,
// issues a brand-new pair. Rejections wrap ErrUnauthorized with the
// reason: ErrTokenExpired for an expired signature or stored expiry,
// ErrTokenMalformed for a bad signature or structure, ErrTokenRevoked
// for a digest mismatch or a cleared session. The reasons exist for
// logging and UX only; every one of them means "log in again".
func (s *AuthService) RefreshTokens(ctx context.Context, raw string) (TokenPair, error) {
	userID, err := utils.ParseRefreshToken(s.refreshSecret, raw)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, ErrTokenExpired
		}
		return TokenPair{}, ErrTokenMalformed
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return TokenPair{}, ErrTokenRevoked
		}
		return TokenPair{}, err
	}
	if u.RefreshTokenHash == nil {
		return TokenPair{}, ErrTokenRevoked
	}
	if utils.HashRefreshRaw(raw) != *u.RefreshTokenHash {
		// The token verified but is not the stored one: it was rotated
		// away by a newer login or refresh.
		return TokenPair{}, ErrTokenRevoked
	}
	if u.RefreshTokenExpiresAt == nil || time.Now().UTC().After(*u.RefreshTokenExpiresAt) {
		return TokenPair{}, ErrTokenExpired
	}

	return s.IssueTokens(ctx, u)
}

// Logout clears the stored refresh credentials so no refresh token is
// accepted until the next login.
func (s *AuthService) Logout(ctx context.Context, userID uint64) error {
	return s.users.UpdateCredentials(ctx, userID, nil, nil, false)
}
