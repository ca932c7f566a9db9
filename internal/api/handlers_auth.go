package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymdesk/internal/services"
	"go.uber.org/zap"
)

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if admin := handler.optionalAdmin(c); admin != nil {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	flash := handler.popFlashCookie(c)
	return handler.render(c, "login", fiber.Map{
		"Title":      localizedPageTitle(currentMessages(c), "meta.title.login", "Gymdesk | Sign in"),
		"Flash":      flash,
		"LoginEmail": flash.LoginEmail,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	form := loginForm{}
	if err := c.BodyParser(&form); err != nil {
		return handler.respondLoginError(c, fiber.StatusBadRequest, "error.invalid_input", "")
	}
	form.Email = strings.TrimSpace(form.Email)
	if formErr := handler.validateForm(&form); formErr != nil {
		return handler.respondLoginError(c, fiber.StatusBadRequest, "error.invalid_credentials", form.Email)
	}

	admin, err := handler.auth.Authenticate(form.Email, form.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			handler.log.Error("authenticate admin", zap.String("request_id", requestID(c)), zap.Error(err))
		}
		return handler.respondLoginError(c, fiber.StatusUnauthorized, "error.invalid_credentials", form.Email)
	}

	if err := handler.setSessionCookie(c, admin); err != nil {
		handler.log.Error("issue session", zap.String("request_id", requestID(c)), zap.Error(err))
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}

	handler.log.Info("admin signed in", zap.String("request_id", requestID(c)))
	if !acceptsJSON(c) {
		handler.flashSuccess(c, "flash.login_success")
	}
	return redirectOrJSON(c, "/dashboard")
}

func (handler *Handler) respondLoginError(c *fiber.Ctx, status int, key string, email string) error {
	if acceptsJSON(c) {
		return apiError(c, status, translateMessage(currentMessages(c), key))
	}
	handler.setFlashCookie(c, FlashPayload{
		Error:      translateMessage(currentMessages(c), key),
		LoginEmail: email,
	})
	return c.Redirect("/login", fiber.StatusSeeOther)
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearSessionCookie(c)
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{"ok": true})
	}
	handler.flashSuccess(c, "flash.logout_success")
	return c.Redirect("/login", fiber.StatusSeeOther)
}
