package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sneakershop/apperror"
	"sneakershop/models"
)

const identityKey = "identity"

// TokenVerifier resolves a bearer token into the caller's identity.
type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

// JWTMiddleware accepts the token as "Authorization: Bearer <t>" or in the
// x-auth-token header and stores the verified identity in Locals.
func JWTMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := verifier.Verify(tokenFrom(c))
		if err != nil {
			return err
		}
		c.Locals(identityKey, id)
		return c.Next()
	}
}

// RequireAdmin must run after JWTMiddleware.
func RequireAdmin(c *fiber.Ctx) error {
	id := Identity(c)
	if id == nil {
		return apperror.Auth("Access denied")
	}
	if !id.IsAdmin {
		return apperror.Forbidden("Not authorized as an admin")
	}
	return c.Next()
}

// Identity returns the authenticated caller, or nil for anonymous requests.
func Identity(c *fiber.Ctx) *models.Identity {
	id, ok := c.Locals(identityKey).(models.Identity)
	if !ok {
		return nil
	}
	return &id
}

func tokenFrom(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return strings.TrimSpace(c.Get("x-auth-token"))
}
