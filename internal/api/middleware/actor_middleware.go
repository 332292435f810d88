package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"medical-record-service/internal/actor"
)

// HeaderUserID carries the verified caller identity. Upstream infrastructure
// (gateway / auth proxy) is responsible for validating it; this service only
// refuses to operate without one - there is no default identity.
const HeaderUserID = "X-User-Id"

// RequireActor resolves the acting identity from the request and attaches it
// to the request context. Requests without a parseable identity are rejected.
func RequireActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderUserID)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing " + HeaderUserID + " header"})
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid " + HeaderUserID + " header"})
		}
		c.SetUserContext(actor.With(c.UserContext(), actor.Actor{ID: id.String()}))
		return c.Next()
	}
}
