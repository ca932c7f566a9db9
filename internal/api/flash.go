package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymdesk/internal/services"
	"go.uber.org/zap"
)

const (
	flashCookiePurpose = "flash"
	flashCookieTTL     = 5 * time.Minute
)

// FlashPayload carries one-shot messages across a redirect. Success and Error
// hold text already translated for the language of the request that set them.
type FlashPayload struct {
	Success    string `json:"success,omitempty"`
	Error      string `json:"error,omitempty"`
	LoginEmail string `json:"login_email,omitempty"`
}

func (payload FlashPayload) normalized(validate *validator.Validate) FlashPayload {
	payload.Success = strings.TrimSpace(payload.Success)
	payload.Error = strings.TrimSpace(payload.Error)
	payload.LoginEmail = normalizeFlashEmail(validate, payload.LoginEmail)
	return payload
}

// normalizeFlashEmail keeps the remembered login email only when it is a
// plausible address, so the login form never echoes arbitrary cookie text.
func normalizeFlashEmail(validate *validator.Validate, raw string) string {
	email := services.NormalizeEmail(raw)
	if email == "" || validate.Var(email, "email,max=254") != nil {
		return ""
	}
	return email
}

func (payload FlashPayload) empty() bool {
	return payload.Success == "" && payload.Error == "" && payload.LoginEmail == ""
}

func (handler *Handler) setFlashCookie(c *fiber.Ctx, payload FlashPayload) {
	payload = payload.normalized(handler.validate)
	if payload.empty() {
		handler.clearFlashCookie(c)
		return
	}

	serialized, err := json.Marshal(payload)
	if err != nil {
		return
	}
	sealed, err := handler.cookies.seal(flashCookiePurpose, serialized)
	if err != nil {
		handler.log.Warn("seal flash cookie", zap.String("request_id", requestID(c)), zap.Error(err))
		return
	}

	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    sealed,
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(flashCookieTTL),
	})
}

func (handler *Handler) flashSuccess(c *fiber.Ctx, key string) {
	handler.setFlashCookie(c, FlashPayload{Success: translateMessage(currentMessages(c), key)})
}

func (handler *Handler) flashError(c *fiber.Ctx, message string) {
	handler.setFlashCookie(c, FlashPayload{Error: message})
}

// popFlashCookie consumes the flash cookie. Tampered or foreign values read
// as an empty payload.
func (handler *Handler) popFlashCookie(c *fiber.Ctx) FlashPayload {
	raw := strings.TrimSpace(c.Cookies(flashCookieName))
	if raw == "" {
		return FlashPayload{}
	}
	handler.clearFlashCookie(c)

	plaintext, err := handler.cookies.open(flashCookiePurpose, raw)
	if err != nil {
		return FlashPayload{}
	}

	payload := FlashPayload{}
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return FlashPayload{}
	}
	return payload.normalized(handler.validate)
}

func (handler *Handler) clearFlashCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   handler.cookieSecure,
		SameSite: "Lax",
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
