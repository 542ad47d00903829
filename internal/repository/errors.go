// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. ErrNotFound means the referenced row does not exist at
// all, while ErrConflict signals that a conditional write could not be
// applied as given: either a concurrent mutation invalidated the
// caller's version, or a uniqueness constraint was violated. Callers
// react differently to the two: NotFound is terminal, while Conflict
// is recoverable by re-fetching and retrying.
package repository

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a row does not exist (or is soft
// deleted and the caller asked for live rows only). Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional update or soft delete
// matched no row because of a concurrent mutation, or when a write
// violated a uniqueness constraint. Handlers should translate this
// into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists and ErrEmailExists narrow ErrConflict for user
// registration so the handler can report which field collided.
var (
	ErrUsernameExists = errors.New("username already exists")
	ErrEmailExists    = errors.New("email already exists")
)

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error code 1062).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
