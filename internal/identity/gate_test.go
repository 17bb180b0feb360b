package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVerifier scripts the identity backend.
type fakeVerifier struct {
	userID string
	email  string
	err    error
	calls  int
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (string, string, error) {
	f.calls++
	return f.userID, f.email, f.err
}

func TestGateAuthenticate(t *testing.T) {
	ctx := context.Background()

	breakGlass := NewBreakGlass("sealed-secret")
	bgToken, err := breakGlass.Mint("oncall", time.Hour)
	require.NoError(t, err)

	t.Run("empty token rejected without backend call", func(t *testing.T) {
		verifier := &fakeVerifier{}
		gate := NewGate(verifier, breakGlass)

		_, err := gate.Authenticate(ctx, "")
		require.ErrorIs(t, err, ErrUnauthenticated)
		assert.Zero(t, verifier.calls)
	})

	t.Run("verified token resolves admin identity", func(t *testing.T) {
		gate := NewGate(&fakeVerifier{userID: "u-1", email: "admin@example.com"}, breakGlass)

		ident, err := gate.Authenticate(ctx, "some-token")
		require.NoError(t, err)
		assert.Equal(t, "u-1", ident.ID)
		assert.Equal(t, "admin@example.com", ident.Email)
		assert.Equal(t, RoleAdmin, ident.Role)
	})

	t.Run("definitive rejection is final even for break-glass token", func(t *testing.T) {
		gate := NewGate(&fakeVerifier{err: ErrVerifierRejected}, breakGlass)

		_, err := gate.Authenticate(ctx, bgToken)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unreachable backend accepts break-glass token", func(t *testing.T) {
		gate := NewGate(&fakeVerifier{err: ErrVerifierUnreachable}, breakGlass)

		ident, err := gate.Authenticate(ctx, bgToken)
		require.NoError(t, err)
		assert.Equal(t, "oncall", ident.ID)
		assert.Equal(t, RoleAdmin, ident.Role)
	})

	t.Run("unreachable backend rejects arbitrary long tokens", func(t *testing.T) {
		gate := NewGate(&fakeVerifier{err: ErrVerifierUnreachable}, breakGlass)

		// token length proves nothing; only a signed credential passes
		long := make([]byte, 256)
		for i := range long {
			long[i] = 'a'
		}

		_, err := gate.Authenticate(ctx, string(long))
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("unreachable backend with disabled break-glass rejects", func(t *testing.T) {
		gate := NewGate(&fakeVerifier{err: ErrVerifierUnreachable}, NewBreakGlass(""))

		_, err := gate.Authenticate(ctx, bgToken)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}
