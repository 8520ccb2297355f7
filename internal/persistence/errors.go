package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConflict is returned when an insert or update violates a uniqueness
	// constraint, such as the one-open-session-per-user index.
	ErrConflict = errors.New("persistence: conflict")
)

// Wrapped conflict sentinels for account provisioning, where the caller needs
// to know which uniqueness constraint fired. Each satisfies errors.Is for
// both itself and ErrConflict.
var (
	ErrSubdomainConflict = fmt.Errorf("%w: organization subdomain", ErrConflict)
	ErrEmailConflict     = fmt.Errorf("%w: email", ErrConflict)
)
