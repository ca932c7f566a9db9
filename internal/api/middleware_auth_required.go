package api

import (
	"github.com/gofiber/fiber/v2"
)

// AdminRequired lets the request through only with a valid session cookie.
// Browsers are sent to /login; JSON clients get 401.
func (handler *Handler) AdminRequired(c *fiber.Ctx) error {
	admin, err := handler.authenticateRequest(c)
	if err != nil {
		if c.Cookies(sessionCookieName) != "" {
			handler.clearSessionCookie(c)
		}
		if acceptsJSON(c) {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Redirect("/login", fiber.StatusSeeOther)
	}

	c.Locals(contextAdminKey, &admin)
	return c.Next()
}
