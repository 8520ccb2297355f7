package application

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when no valid identity accompanies a request.
	ErrUnauthenticated = errors.New("application: unauthenticated")
	// ErrNotFound is returned when the requested resource does not exist or is
	// not visible to the caller's organization.
	ErrNotFound = errors.New("application: not found")
	// ErrConflict is returned when an operation would violate an invariant,
	// such as clocking in while a session is already open.
	ErrConflict = errors.New("application: conflict")
	// ErrAlreadyExists is returned when a unique attribute is already taken.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when login verification fails.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrIntegrity is returned when an impossible state is detected, such as a
	// session that ends before it starts.
	ErrIntegrity = errors.New("application: integrity violation")
)

// Wrapped sentinels for the distinct domain rule failures. Each satisfies
// errors.Is for both itself and its base sentinel, so transport code can
// branch on the base and pick messages from the specific one.
var (
	ErrNoActiveSession     = fmt.Errorf("%w: no active session", ErrNotFound)
	ErrActiveSessionExists = fmt.Errorf("%w: active session already exists", ErrConflict)
	ErrProjectNotFound     = fmt.Errorf("%w: project", ErrNotFound)
	ErrMemberNotFound      = fmt.Errorf("%w: member", ErrNotFound)
	ErrSessionNotFound     = fmt.Errorf("%w: session", ErrNotFound)
	ErrSubdomainTaken      = fmt.Errorf("%w: organization subdomain", ErrAlreadyExists)
	ErrEmailTaken          = fmt.Errorf("%w: email", ErrAlreadyExists)
)

// ValidationError captures field level validation issues that callers can
// surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
