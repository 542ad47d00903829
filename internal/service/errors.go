// Package service implements the business logic between the HTTP
// handlers and the repositories: the optimistic update and idempotent
// soft delete protocols for catalog entities, and the session token
// manager for authentication. Services are stateless per call; all
// race safety is pushed into the repositories' atomic conditional
// writes, so no in-process locks appear anywhere in this package.
package service

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by Authenticate for a wrong
// password and for an unknown username alike, so callers cannot
// enumerate accounts from the error shape.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrUnauthorized is the root of all refresh-token failures. The
// wrapped sentinels below carry the reason for logging and UX; control
// flow should only ever branch on ErrUnauthorized itself.
var ErrUnauthorized = errors.New("unauthorized")

var (
	// ErrTokenExpired means the presented or stored refresh token is
	// past its expiry.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
	// ErrTokenMalformed means the presented token failed signature or
	// structure verification.
	ErrTokenMalformed = fmt.Errorf("%w: token malformed", ErrUnauthorized)
	// ErrTokenRevoked means the presented token does not match the
	// stored digest: it was rotated away or the session was cleared.
	ErrTokenRevoked = fmt.Errorf("%w: token revoked", ErrUnauthorized)
)

// ErrNoFields is returned by Update when the request resolved to an
// empty patch. This is caller input error, not a conflict.
var ErrNoFields = errors.New("no fields to update")
