package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/band-catalog/internal/config"
	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
	"github.com/iliyamo/band-catalog/internal/service"
	"github.com/iliyamo/band-catalog/internal/utils"
)

// sessionStore holds one user row in memory; just enough credential
// store for the refresh endpoint.
type sessionStore struct {
	user model.User
}

func (s *sessionStore) Create(ctx context.Context, u *model.User) error {
	u.ID = s.user.ID
	return nil
}

func (s *sessionStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	if username != s.user.Username {
		return model.User{}, repository.ErrNotFound
	}
	return s.user, nil
}

func (s *sessionStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	if id != s.user.ID {
		return model.User{}, repository.ErrNotFound
	}
	return s.user, nil
}

func (s *sessionStore) UpdateCredentials(ctx context.Context, userID uint64, refreshTokenHash *string, expiresAt *time.Time, touchLastLogin bool) error {
	s.user.RefreshTokenHash = refreshTokenHash
	s.user.RefreshTokenExpiresAt = expiresAt
	return nil
}

func newRefreshHandler(store service.CredentialStore) *AuthHandler {
	cfg := config.Config{
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTTLMin:     15,
		RefreshTTLDays:   7,
		BcryptCost:       bcrypt.MinCost,
	}
	return NewAuthHandler(service.NewAuthService(store, cfg))
}

func postRefresh(t *testing.T, h *AuthHandler, token string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	body := `{"refresh_token":"` + token + `"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.Refresh(e.NewContext(req, rec)))
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRefreshReportsMalformedToken(t *testing.T) {
	h := newRefreshHandler(&sessionStore{user: model.User{ID: 7, Username: "ada", IsActive: true}})

	rec := postRefresh(t, h, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "refresh token malformed", errorBody(t, rec))
}

func TestRefreshReportsExpiredToken(t *testing.T) {
	h := newRefreshHandler(&sessionStore{user: model.User{ID: 7, Username: "ada", IsActive: true}})
	tok, err := utils.NewRefreshToken("refresh-secret", 7, -1)
	require.NoError(t, err)

	rec := postRefresh(t, h, tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "refresh token expired", errorBody(t, rec))
}

func TestRefreshReportsRevokedToken(t *testing.T) {
	// The token verifies but no digest is stored: the session was
	// cleared or the token was rotated away.
	h := newRefreshHandler(&sessionStore{user: model.User{ID: 7, Username: "ada", IsActive: true}})
	tok, err := utils.NewRefreshToken("refresh-secret", 7, 7)
	require.NoError(t, err)

	rec := postRefresh(t, h, tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "refresh token revoked", errorBody(t, rec))
}
