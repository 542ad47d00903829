package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/band-catalog/internal/model"
)

const userColumns = "id, username, email, password_hash, first_name, last_name, is_active, refresh_token_hash, refresh_token_expires_at, last_login_at, created_at, updated_at"

// UserRepo is the credential store for the `users` table. Besides plain
// reads and inserts it exposes exactly one mutation, UpdateCredentials,
// which rotates the refresh token fields (and optionally the last-login
// timestamp) in a single UPDATE statement. Callers must never compose
// separate writes for a login event: two statements open a window in
// which a concurrent login's write can interleave, leaving a stale hash
// next to a fresh expiry or vice versa.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo constructs a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and reloads the stored row. Username and email
// collisions are reported as ErrUsernameExists / ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Username = strings.ToLower(strings.TrimSpace(u.Username))
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, first_name, last_name, is_active) VALUES (?,?,?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			if strings.Contains(strings.ToLower(err.Error()), "email") {
				return ErrEmailExists
			}
			return ErrUsernameExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = stored
	return nil
}

// GetByUsername fetches a user by normalized username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? LIMIT 1", username)
	return scanUser(row)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email)
	return scanUser(row)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id)
	return scanUser(row)
}

// UpdateCredentials writes refresh_token_hash, refresh_token_expires_at
// and, when touchLastLogin is set, last_login_at with one atomic
// UPDATE. Passing nil for both token fields clears the active session
// (logout). Returns ErrNotFound when the user row does not exist.
func (r *UserRepo) UpdateCredentials(ctx context.Context, userID uint64, refreshTokenHash *string, expiresAt *time.Time, touchLastLogin bool) error {
	q := "UPDATE users SET refresh_token_hash = ?, refresh_token_expires_at = ?"
	if touchLastLogin {
		q += ", last_login_at = NOW()"
	}
	q += " WHERE id = ?"

	res, err := r.DB.ExecContext(ctx, q, refreshTokenHash, expiresAt, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Confirm the row is actually missing before reporting NotFound.
		if _, err := r.GetByID(ctx, userID); errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
	}
	return nil
}

func scanUser(row rowScanner) (model.User, error) {
	var u model.User
	var firstName, lastName, refreshHash sql.NullString
	var refreshExp, lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&firstName, &lastName, &u.IsActive,
		&refreshHash, &refreshExp, &lastLogin,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if firstName.Valid {
		v := firstName.String
		u.FirstName = &v
	}
	if lastName.Valid {
		v := lastName.String
		u.LastName = &v
	}
	if refreshHash.Valid {
		v := refreshHash.String
		u.RefreshTokenHash = &v
	}
	if refreshExp.Valid {
		t := refreshExp.Time
		u.RefreshTokenExpiresAt = &t
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}
