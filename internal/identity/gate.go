package identity

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// Gate authorizes settings mutations. It resolves a bearer token to an
// admin identity via the external verifier, falling back to the explicit
// break-glass credential only when the verifier is unreachable.
type Gate struct {
	verifier   Verifier
	breakGlass *BreakGlass
}

// NewGate creates the access gate.
func NewGate(verifier Verifier, breakGlass *BreakGlass) *Gate {
	return &Gate{verifier: verifier, breakGlass: breakGlass}
}

// Authenticate resolves token to an identity or ErrUnauthenticated.
//
// A definitive rejection by the identity backend is final: break-glass is
// a degraded mode for an unreachable backend, not a second chance for a
// bad token.
func (g *Gate) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	userID, email, err := g.verifier.Verify(ctx, token)
	if err == nil {
		return &Identity{ID: userID, Email: email, Role: RoleAdmin}, nil
	}

	if errors.Is(err, ErrVerifierRejected) {
		return nil, ErrUnauthenticated
	}

	// verifier unreachable: degraded mode via the break-glass credential
	log.Warn().Err(err).Msg("identity backend unreachable, checking break-glass credential")

	ident, bgErr := g.breakGlass.Verify(token)
	if bgErr != nil {
		return nil, ErrUnauthenticated
	}

	log.Warn().Str("subject", ident.ID).Msg("break-glass credential accepted")

	return ident, nil
}
