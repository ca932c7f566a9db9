package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymdesk/internal/models"
)

const (
	sessionCookieName   = "gymdesk_session"
	languageCookieName  = "gymdesk_lang"
	flashCookieName     = "gymdesk_flash"
	contextAdminKey     = "current_admin"
	contextLanguageKey  = "current_language"
	contextMessagesKey  = "current_messages"
	contextRequestIDKey = "request_id"
)

func currentAdmin(c *fiber.Ctx) (*models.Admin, bool) {
	admin, ok := c.Locals(contextAdminKey).(*models.Admin)
	return admin, ok && admin != nil
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(contextRequestIDKey).(string)
	return id
}
