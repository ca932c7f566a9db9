package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (handler *Handler) ShowIndex(c *fiber.Ctx) error {
	admin := handler.optionalAdmin(c)
	if admin != nil {
		c.Locals(contextAdminKey, admin)
	}
	return handler.render(c, "index", fiber.Map{
		"Title":    localizedPageTitle(currentMessages(c), "meta.title.index", "Gymdesk"),
		"SignedIn": admin != nil,
	})
}

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	handler.setLanguageCookie(c, c.Params("lang"))
	return c.Redirect(sanitizeRedirectPath(c.Query("next"), "/"), fiber.StatusSeeOther)
}

func (handler *Handler) NotFound(c *fiber.Ctx) error {
	if acceptsJSON(c) {
		return apiError(c, fiber.StatusNotFound, "not found")
	}
	return handler.renderNotFound(c, "not_found.title")
}

func (handler *Handler) renderNotFound(c *fiber.Ctx, headingKey string) error {
	admin := handler.optionalAdmin(c)
	if admin != nil {
		c.Locals(contextAdminKey, admin)
	}

	primaryPath := "/login"
	primaryLabelKey := "not_found.action_login"
	if admin != nil {
		primaryPath = "/dashboard"
		primaryLabelKey = "not_found.action_dashboard"
	}
	if strings.TrimSpace(headingKey) == "" {
		headingKey = "not_found.title"
	}

	c.Status(fiber.StatusNotFound)
	return handler.render(c, "not_found", fiber.Map{
		"Title":           localizedPageTitle(currentMessages(c), "meta.title.not_found", "Gymdesk | Not Found"),
		"HeadingKey":      headingKey,
		"PrimaryPath":     primaryPath,
		"PrimaryLabelKey": primaryLabelKey,
	})
}
