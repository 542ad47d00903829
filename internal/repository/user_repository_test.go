package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/band-catalog/internal/model"
)

func newMockUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

const selectUserByID = "SELECT " + userColumns + " FROM users WHERE id = ? LIMIT 1"

func userRow(id uint64, username string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "first_name", "last_name",
		"is_active", "refresh_token_hash", "refresh_token_expires_at",
		"last_login_at", "created_at", "updated_at",
	}).AddRow(id, username, username+"@example.com", "$2a$10$hash", nil, nil,
		true, nil, nil, nil, now, now)
}

// A login event must write the refresh hash, its expiry and the
// last-login timestamp through a single UPDATE statement.
func TestUpdateCredentialsRotatesInOneStatement(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	hash := "deadbeef"
	exp := time.Now().UTC().Add(7 * 24 * time.Hour)

	mock.ExpectExec("UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ?, last_login_at = NOW() WHERE id = ?").
		WithArgs(hash, exp, uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateCredentials(context.Background(), 12, &hash, &exp, true)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCredentialsClearSession(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ? WHERE id = ?").
		WithArgs(nil, nil, uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateCredentials(context.Background(), 12, nil, nil, false)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateCredentialsMissingUser(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ? WHERE id = ?").
		WithArgs(nil, nil, uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectUserByID).
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.UpdateCredentials(context.Background(), 99, nil, nil, false)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Zero affected rows can also mean the UPDATE was a no-change write;
// that must not be reported as NotFound when the row exists.
func TestUpdateCredentialsNoChange(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ? WHERE id = ?").
		WithArgs(nil, nil, uint64(12)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(selectUserByID).
		WithArgs(uint64(12)).
		WillReturnRows(userRow(12, "ada"))

	err := repo.UpdateCredentials(context.Background(), 12, nil, nil, false)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsDuplicateEmail(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("INSERT INTO users (username, email, password_hash, first_name, last_name, is_active) VALUES (?,?,?,?,?,?)").
		WithArgs("ada", "ada@example.com", "hash", nil, nil, true).
		WillReturnError(errors.New("Error 1062: Duplicate entry 'ada@example.com' for key 'users.email'"))

	u := model.User{Username: "Ada", Email: "Ada@Example.com", PasswordHash: "hash", IsActive: true}
	err := repo.Create(context.Background(), &u)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMapsDuplicateUsername(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectExec("INSERT INTO users (username, email, password_hash, first_name, last_name, is_active) VALUES (?,?,?,?,?,?)").
		WithArgs("ada", "ada@example.com", "hash", nil, nil, true).
		WillReturnError(errors.New("Error 1062: Duplicate entry 'ada' for key 'users.username'"))

	u := model.User{Username: "ada", Email: "ada@example.com", PasswordHash: "hash", IsActive: true}
	err := repo.Create(context.Background(), &u)
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsernameNormalizes(t *testing.T) {
	repo, mock := newMockUserRepo(t)

	mock.ExpectQuery("SELECT "+userColumns+" FROM users WHERE username = ? LIMIT 1").
		WithArgs("ada").
		WillReturnRows(userRow(12, "ada"))

	u, err := repo.GetByUsername(context.Background(), "  ADA ")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
