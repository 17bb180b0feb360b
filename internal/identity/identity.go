// Package identity implements the access gate protecting every settings
// mutation. Callers are verified against an external identity backend; an
// explicit break-glass credential keeps the admin surface reachable when
// that backend is down.
package identity

import (
	"context"
	"errors"
)

const (
	// RoleAdmin is the only role the gate resolves. There is no finer
	// grained permission model behind it.
	RoleAdmin = "admin"
)

var (
	// ErrUnauthenticated is returned when a request carries no acceptable credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrVerifierRejected is returned when the identity backend definitively rejected the token.
	ErrVerifierRejected = errors.New("identity backend rejected token")
	// ErrVerifierUnreachable is returned when the identity backend can not be reached.
	ErrVerifierUnreachable = errors.New("identity backend unreachable")
)

// Identity is the caller resolved by the gate.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Verifier checks a token against the identity backend.
type Verifier interface {
	// Verify resolves the token to a user. A definitive rejection is
	// reported as ErrVerifierRejected, an unreachable backend as
	// ErrVerifierUnreachable.
	Verify(ctx context.Context, token string) (userID, email string, err error)
}
