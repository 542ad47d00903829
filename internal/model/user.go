package model

import "time"

// User represents an application user record as stored in the `users`
// table. The json tags are omitted here because these structs are used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags.
//
// RefreshTokenHash holds the SHA-256 hex digest of the currently valid
// refresh token; nil means no active session. RefreshTokenExpiresAt is
// set whenever the hash is set and cleared together with it; the two
// columns are only ever written by a single UPDATE statement so that
// concurrent logins cannot interleave a stale hash with a fresh expiry.
//
// Fields:
//
//	ID                    – primary key identifier of the user.
//	Username              – unique login name.
//	Email                 – unique email address.
//	PasswordHash          – bcrypt hashed password.
//	FirstName, LastName   – optional profile names.
//	IsActive              – whether the account is active.
//	RefreshTokenHash      – SHA-256 digest of the active refresh token (nullable).
//	RefreshTokenExpiresAt – expiry of the active refresh token (nullable).
//	LastLoginAt           – advisory timestamp of the last successful login.
//	CreatedAt, UpdatedAt  – row timestamps.
type User struct {
	ID                    uint64     // users.id
	Username              string     // users.username
	Email                 string     // users.email
	PasswordHash          string     // users.password_hash
	FirstName             *string    // users.first_name
	LastName              *string    // users.last_name
	IsActive              bool       // users.is_active
	RefreshTokenHash      *string    // users.refresh_token_hash
	RefreshTokenExpiresAt *time.Time // users.refresh_token_expires_at
	LastLoginAt           *time.Time // users.last_login_at
	CreatedAt             time.Time  // users.created_at
	UpdatedAt             time.Time  // users.updated_at
}
