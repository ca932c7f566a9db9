package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymdesk/internal/models"
)

var errMissingSessionCookie = errors.New("missing session cookie")

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (models.Admin, error) {
	rawToken := strings.TrimSpace(c.Cookies(sessionCookieName))
	if rawToken == "" {
		return models.Admin{}, errMissingSessionCookie
	}
	return handler.auth.ParseSessionToken(rawToken, handler.now())
}

// optionalAdmin is used by public pages that only adapt their navigation.
func (handler *Handler) optionalAdmin(c *fiber.Ctx) *models.Admin {
	if admin, ok := currentAdmin(c); ok {
		return admin
	}
	admin, err := handler.authenticateRequest(c)
	if err != nil {
		return nil
	}
	return &admin
}

func (handler *Handler) setSessionCookie(c *fiber.Ctx, admin models.Admin) error {
	now := handler.now()
	token, err := handler.auth.BuildSessionToken(admin, now)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  now.Add(handler.auth.SessionTTL()),
	})
	return nil
}

func (handler *Handler) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
