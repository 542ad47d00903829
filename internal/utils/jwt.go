package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"   // random token identifiers
	"crypto/sha256" // SHA-256 hashing for stored refresh token digests
	"encoding/hex"  // hex encoding for digests
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// AccessToken represents a signed JWT access token along with its
// expiry. Access tokens are short-lived, stateless, and carry the user
// id, username and email so protected handlers can identify the caller
// without a database read.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// RefreshToken represents a long-lived token used to obtain new access
// tokens. The token itself is a signed JWT carrying only the subject
// and expiry; the database stores a SHA-256 digest of the serialized
// string, never the token itself, so a leaked database row cannot be
// replayed as a session.
type RefreshToken struct {
	Token string    // signed JWT string returned to the client
	Exp   time.Time // UTC expiration time, mirrored from the exp claim
}

// NewAccessToken builds and signs an HS256 JWT for a user. The claims
// are: subject (sub) = user id, username, email, expiration (exp) and
// issued at (iat).
func NewAccessToken(secret string, userID uint64, username, email string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"email":    email,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh JWT for a user.
// Refresh tokens live longer than access tokens and are usually signed
// with a dedicated secret. The returned Exp mirrors the embedded exp
// claim; the credential store persists exactly this timestamp next to
// the token digest.
func NewRefreshToken(secret string, userID uint64, ttlDays int) (RefreshToken, error) {
	// The jti claim makes every refresh token unique even when two are
	// minted within the same second, so rotation always changes the
	// stored digest.
	jti := make([]byte, 16)
	if _, err := rand.Read(jti); err != nil {
		return RefreshToken{}, err
	}
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": hex.EncodeToString(jti),
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Token: signed, Exp: exp}, nil
}

// ParseRefreshToken verifies the signature of a presented refresh token
// and extracts its subject. Expired tokens surface jwt.ErrTokenExpired
// via errors.Is; any other failure means the token is malformed or was
// signed with the wrong key.
func ParseRefreshToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}
	if !tok.Valid {
		return 0, errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("invalid claims")
	}
	// Numeric claims decode as float64; some encoders emit strings.
	switch sub := claims["sub"].(type) {
	case float64:
		return uint64(sub), nil
	case string:
		return strconv.ParseUint(sub, 10, 64)
	default:
		return 0, errors.New("missing subject claim")
	}
}

// HashRefreshRaw returns the SHA-256 digest of the serialized refresh
// token as a hex string. Only this digest is stored in the database.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
