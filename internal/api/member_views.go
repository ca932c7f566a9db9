package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymdesk/internal/models"
	"github.com/terraincognita07/gymdesk/internal/services"
	"go.uber.org/zap"
)

const memberNotFoundMessage = "Member not found"

// memberRow decorates a member with the overdue flag derived for today.
type memberRow struct {
	models.Member
	Overdue     bool `json:"overdue"`
	DaysOverdue int  `json:"days_overdue"`
}

func buildMemberRows(members []models.Member, today time.Time) []memberRow {
	rows := make([]memberRow, 0, len(members))
	for _, member := range members {
		overdue := services.IsOverdue(member, today)
		daysOverdue := 0
		if overdue {
			daysOverdue = services.DaysOverdue(member, today)
		}
		rows = append(rows, memberRow{Member: member, Overdue: overdue, DaysOverdue: daysOverdue})
	}
	return rows
}

// respondMemberError answers a failed member operation. JSON clients get a
// status matching the error; browsers get a flash message and a redirect.
func (handler *Handler) respondMemberError(c *fiber.Ctx, err error, redirectPath string) error {
	status, message := handler.describeMemberError(c, err)
	if status == fiber.StatusNotFound {
		return apiError(c, status, memberNotFoundMessage)
	}
	if acceptsJSON(c) {
		return apiError(c, status, message)
	}
	handler.flashError(c, message)
	return c.Redirect(redirectPath, fiber.StatusSeeOther)
}

func (handler *Handler) describeMemberError(c *fiber.Ctx, err error) (int, string) {
	messages := currentMessages(c)

	var validationErr *services.ValidationError
	var duplicateErr *services.DuplicateMemberError
	var insufficientErr *services.InsufficientPaymentError
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, formErrorFromValidation(validationErr).message(messages)
	case errors.As(err, &duplicateErr):
		key := "error.duplicate_member"
		if duplicateErr.Field != "" {
			key = "error.duplicate_" + duplicateErr.Field
		}
		return fiber.StatusConflict, translateMessage(messages, key)
	case errors.As(err, &insufficientErr):
		return fiber.StatusUnprocessableEntity, translateMessagef(messages, "error.insufficient_payment", formatTemplateMoney(insufficientErr.Required))
	case errors.Is(err, services.ErrMemberNotFound):
		return fiber.StatusNotFound, memberNotFoundMessage
	default:
		handler.log.Error("member operation failed", zap.String("request_id", requestID(c)), zap.Error(err))
		return fiber.StatusInternalServerError, translateMessage(messages, "error.internal")
	}
}
