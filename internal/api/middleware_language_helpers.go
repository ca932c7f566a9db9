package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const languageCookieMaxAge = 365 * 24 * time.Hour

// LanguageMiddleware picks the UI language for the request: a ?lang= query
// wins for that request only, then the language cookie, then Accept-Language.
// The cookie is written by SetLanguage, or rewritten here when it holds a
// value that is no longer supported.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := handler.resolveLanguage(c)

	c.Set(fiber.HeaderContentLanguage, language)
	c.Vary(fiber.HeaderAcceptLanguage)
	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}

func (handler *Handler) resolveLanguage(c *fiber.Ctx) string {
	if requested := strings.TrimSpace(c.Query("lang")); requested != "" {
		return handler.i18n.NormalizeLanguage(requested)
	}

	stored := strings.TrimSpace(c.Cookies(languageCookieName))
	if stored == "" {
		return handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	}

	language := handler.i18n.NormalizeLanguage(stored)
	if language != stored {
		handler.setLanguageCookie(c, language)
	}
	return language
}

func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	c.Cookie(&fiber.Cookie{
		Name:     languageCookieName,
		Value:    handler.i18n.NormalizeLanguage(language),
		Path:     "/",
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(languageCookieMaxAge),
	})
}
