// Package errs defines the error vocabulary shared by the stores, the
// membership service and the HTTP handlers.
//
// Three kinds exist. Every specific error wraps exactly one kind, so callers
// branch with errors.Is(err, errs.ErrConflict) and show err.Error() when they
// need the detail.
package errs

import (
	"errors"
	"fmt"
)

// Kinds.
var (
	// ErrConflict is a mutation that would violate a uniqueness or
	// membership invariant.
	ErrConflict = errors.New("conflict")
	// ErrNotFound is a reference to a record that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuth is a failed credential check.
	ErrAuth = errors.New("authentication failed")
)

// Conflicts.
var (
	ErrUsernameTaken = fmt.Errorf("%w: username exists", ErrConflict)
	ErrEmailTaken    = fmt.Errorf("%w: email exists", ErrConflict)
	ErrGroupExists   = fmt.Errorf("%w: group exists", ErrConflict)
	ErrAlreadyMember = fmt.Errorf("%w: already a member", ErrConflict)
	ErrNotMember     = fmt.Errorf("%w: not a member", ErrConflict)
)

// Missing records.
var (
	ErrUserNotFound  = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrGroupNotFound = fmt.Errorf("%w: group not found", ErrNotFound)
)

// ErrBadCredentials is returned for both an unknown username and a wrong
// password. The two cases are not distinguished.
var ErrBadCredentials = fmt.Errorf("%w: username or password is incorrect", ErrAuth)
