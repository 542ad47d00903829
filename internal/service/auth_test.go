package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/band-catalog/internal/config"
	"github.com/iliyamo/band-catalog/internal/model"
	"github.com/iliyamo/band-catalog/internal/repository"
	"github.com/iliyamo/band-catalog/internal/utils"
)

// fakeCredentialStore keeps users in memory. UpdateCredentials writes
// the refresh fields and last-login under one lock acquisition, the
// in-memory analogue of the single UPDATE statement.
type fakeCredentialStore struct {
	mu     sync.Mutex
	nextID uint64
	users  map[uint64]*model.User
	writes int
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{users: make(map[uint64]*model.User)}
}

func (f *fakeCredentialStore) Create(ctx context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return repository.ErrUsernameExists
		}
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeCredentialStore) GetByUsername(ctx context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == strings.ToLower(username) {
			return *u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (f *fakeCredentialStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return *u, nil
}

func (f *fakeCredentialStore) UpdateCredentials(ctx context.Context, userID uint64, refreshTokenHash *string, expiresAt *time.Time, touchLastLogin bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.RefreshTokenHash = refreshTokenHash
	u.RefreshTokenExpiresAt = expiresAt
	if touchLastLogin {
		now := time.Now().UTC()
		u.LastLoginAt = &now
	}
	return nil
}

// setStoredExpiry rewrites the stored refresh expiry directly, leaving
// the digest untouched.
func (f *fakeCredentialStore) setStoredExpiry(userID uint64, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userID].RefreshTokenExpiresAt = &at
}

func testAuthConfig() config.Config {
	return config.Config{
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTTLMin:     15,
		RefreshTTLDays:   7,
		BcryptCost:       bcrypt.MinCost,
	}
}

func newTestAuth(t *testing.T) (*AuthService, *fakeCredentialStore) {
	t.Helper()
	store := newFakeCredentialStore()
	return NewAuthService(store, testAuthConfig()), store
}

func register(t *testing.T, svc *AuthService) TokenPair {
	t.Helper()
	pair, err := svc.Register(context.Background(), RegisterInput{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	return pair
}

func TestRegisterStoresDigestNotToken(t *testing.T) {
	svc, store := newTestAuth(t)
	pair := register(t, svc)

	assert.NotEmpty(t, pair.Access.Token)
	assert.NotEmpty(t, pair.Refresh.Token)

	u, err := store.GetByID(context.Background(), pair.User.ID)
	require.NoError(t, err)
	require.NotNil(t, u.RefreshTokenHash)
	assert.Equal(t, utils.HashRefreshRaw(pair.Refresh.Token), *u.RefreshTokenHash)
	assert.NotEqual(t, pair.Refresh.Token, *u.RefreshTokenHash)
	require.NotNil(t, u.RefreshTokenExpiresAt)
	assert.WithinDuration(t, pair.Refresh.Exp, *u.RefreshTokenExpiresAt, time.Second)
	assert.NotNil(t, u.LastLoginAt)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestAuth(t)
	pair := register(t, svc)

	u, err := svc.Authenticate(context.Background(), "ada", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, pair.User.ID, u.ID)
}

// Wrong password and unknown username must be indistinguishable.
func TestAuthenticateInvalidIndistinguishable(t *testing.T) {
	svc, _ := newTestAuth(t)
	register(t, svc)

	_, wrongPass := svc.Authenticate(context.Background(), "ada", "nope")
	_, unknownUser := svc.Authenticate(context.Background(), "nobody", "nope")

	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPass, unknownUser)
}

func TestAuthenticateInactive(t *testing.T) {
	svc, store := newTestAuth(t)
	pair := register(t, svc)

	store.mu.Lock()
	store.users[pair.User.ID].IsActive = false
	store.mu.Unlock()

	_, err := svc.Authenticate(context.Background(), "ada", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// A refresh token is single-use: after rotation the old token is
// rejected and the new one works.
func TestRefreshRotationSingleUse(t *testing.T) {
	svc, _ := newTestAuth(t)
	pair1 := register(t, svc)

	pair2, err := svc.RefreshTokens(context.Background(), pair1.Refresh.Token)
	require.NoError(t, err)
	assert.NotEqual(t, pair1.Refresh.Token, pair2.Refresh.Token)

	_, err = svc.RefreshTokens(context.Background(), pair1.Refresh.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.RefreshTokens(context.Background(), pair2.Refresh.Token)
	assert.NoError(t, err)
}

func TestRefreshMalformed(t *testing.T) {
	svc, _ := newTestAuth(t)
	register(t, svc)

	_, err := svc.RefreshTokens(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshWrongSignature(t *testing.T) {
	svc, _ := newTestAuth(t)
	pair := register(t, svc)

	forged, err := utils.NewRefreshToken("another-secret", pair.User.ID, 7)
	require.NoError(t, err)

	_, err = svc.RefreshTokens(context.Background(), forged.Token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestRefreshExpiredSignature(t *testing.T) {
	svc, _ := newTestAuth(t)
	pair := register(t, svc)

	expired, err := utils.NewRefreshToken("refresh-secret", pair.User.ID, -1)
	require.NoError(t, err)

	_, err = svc.RefreshTokens(context.Background(), expired.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

// The stored expiry is enforced on its own: even a matching digest is
// rejected once the persisted timestamp has passed.
func TestRefreshStoredExpiryEnforced(t *testing.T) {
	svc, store := newTestAuth(t)
	pair := register(t, svc)

	store.setStoredExpiry(pair.User.ID, time.Now().UTC().Add(-time.Minute))

	_, err := svc.RefreshTokens(context.Background(), pair.Refresh.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefreshAfterLogout(t *testing.T) {
	svc, store := newTestAuth(t)
	pair := register(t, svc)

	require.NoError(t, svc.Logout(context.Background(), pair.User.ID))

	u, err := store.GetByID(context.Background(), pair.User.ID)
	require.NoError(t, err)
	assert.Nil(t, u.RefreshTokenHash)
	assert.Nil(t, u.RefreshTokenExpiresAt)

	_, err = svc.RefreshTokens(context.Background(), pair.Refresh.Token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

// Issuing tokens performs exactly one credential write: hash, expiry
// and last-login land together or not at all.
func TestIssueTokensSingleCredentialWrite(t *testing.T) {
	svc, store := newTestAuth(t)
	pair := register(t, svc)

	writesAfterRegister := store.writes
	_, err := svc.IssueTokens(context.Background(), pair.User)
	require.NoError(t, err)
	assert.Equal(t, writesAfterRegister+1, store.writes)
}
