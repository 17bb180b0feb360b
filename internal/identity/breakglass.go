package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	breakGlassScope  = "breakglass"
	breakGlassIssuer = "siteadmin"

	// BreakGlassEmail identifies the fallback admin in audit logs.
	BreakGlassEmail = "breakglass@siteadmin.local"
)

var (
	// ErrBreakGlassDisabled is returned when no break-glass secret is configured.
	ErrBreakGlassDisabled = errors.New("break-glass credential is disabled")
	// ErrBreakGlassInvalid is returned when the presented token is not a valid break-glass credential.
	ErrBreakGlassInvalid = errors.New("invalid break-glass credential")
)

type breakGlassClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// BreakGlass is the explicit emergency credential used when the identity
// backend is unreachable. It is a signed token with its own expiry and a
// dedicated scope, never inferred from token shape.
type BreakGlass struct {
	secret []byte
}

// NewBreakGlass creates the credential checker. An empty secret disables
// break-glass access entirely.
func NewBreakGlass(secret string) *BreakGlass {
	return &BreakGlass{secret: []byte(secret)}
}

// Enabled reports whether a break-glass secret is configured.
func (b *BreakGlass) Enabled() bool {
	return len(b.secret) > 0
}

// Mint creates a break-glass token valid for ttl. Operators mint these out
// of band and keep them sealed until needed.
func (b *BreakGlass) Mint(subject string, ttl time.Duration) (string, error) {
	if !b.Enabled() {
		return "", ErrBreakGlassDisabled
	}

	now := time.Now()

	claims := breakGlassClaims{
		Scope: breakGlassScope,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    breakGlassIssuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign break-glass token")
	}

	return token, nil
}

// Verify checks the presented token signature, expiry and scope and
// returns the fallback admin identity.
func (b *BreakGlass) Verify(token string) (*Identity, error) {
	if !b.Enabled() {
		return nil, ErrBreakGlassDisabled
	}

	claims := &breakGlassClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}

		return b.secret, nil
	},
		jwt.WithIssuer(breakGlassIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrBreakGlassInvalid
	}

	if claims.Scope != breakGlassScope {
		return nil, ErrBreakGlassInvalid
	}

	return &Identity{
		ID:    claims.Subject,
		Email: BreakGlassEmail,
		Role:  RoleAdmin,
	}, nil
}
