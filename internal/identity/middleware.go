package identity

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LocalsKey stores the authenticated identity in fiber locals.
const LocalsKey = "identity"

// Middleware returns a fiber middleware that authenticates the bearer
// token and stores the resolved identity in locals. Requests without a
// valid credential are rejected with 401.
func Middleware(gate *Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))

		ident, err := gate.Authenticate(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthenticated",
			})
		}

		c.Locals(LocalsKey, ident)

		return c.Next()
	}
}

// FromLocals returns the identity stored by Middleware, or nil.
func FromLocals(c *fiber.Ctx) *Identity {
	ident, _ := c.Locals(LocalsKey).(*Identity)
	return ident
}

func bearerToken(header string) string {
	const prefix = "Bearer "

	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}
