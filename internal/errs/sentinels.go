// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken indicates a unique e-mail constraint violation on registration.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates a failed sign-in. It covers both an
	// unknown e-mail and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken indicates the presented refresh token is expired,
	// malformed, or references a user that no longer exists.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrRateLimited indicates the per-user analysis quota is exhausted.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a unique constraint violation on domain data.
	ErrConflict = errors.New("already exists")

	// ErrInternal masks store or hashing infrastructure failures. Detail is
	// logged server-side and never echoed to the caller.
	ErrInternal = errors.New("internal failure")
)
