package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymdesk/internal/models"
	"github.com/terraincognita07/gymdesk/internal/services"
	"github.com/terraincognita07/gymdesk/internal/storage"
	"go.uber.org/zap"
)

func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	search := c.Query("search")
	today := handler.members.Today()

	members, err := handler.members.ListMembers(ctx, search)
	if err != nil {
		return handler.internalError(c, "list members", err)
	}
	nextDue, err := handler.members.NearestUpcomingDueDate(ctx, today)
	if err != nil {
		return handler.internalError(c, "nearest due date", err)
	}
	count, err := handler.members.CountMembers(ctx)
	if err != nil {
		return handler.internalError(c, "count members", err)
	}

	rows := buildMemberRows(members, today)
	if acceptsJSON(c) {
		return c.JSON(fiber.Map{
			"members":       rows,
			"today":         today.Format(dateLayout),
			"next_due_date": formatTemplateDate(nextDue),
			"member_count":  count,
			"search":        search,
		})
	}

	return handler.render(c, "dashboard", fiber.Map{
		"Title":       localizedPageTitle(currentMessages(c), "meta.title.dashboard", "Gymdesk | Dashboard"),
		"Members":     rows,
		"Today":       today,
		"NextDueDate": nextDue,
		"MemberCount": count,
		"Search":      search,
	})
}

func (handler *Handler) ShowAddMemberPage(c *fiber.Ctx) error {
	form := addMemberForm{AdmissionDate: handler.members.Today().Format(dateLayout)}
	return handler.renderAddMemberForm(c, fiber.StatusOK, form, nil)
}

func (handler *Handler) renderAddMemberForm(c *fiber.Ctx, status int, form addMemberForm, formErr *formError) error {
	data := fiber.Map{
		"Title": localizedPageTitle(currentMessages(c), "meta.title.add_member", "Gymdesk | Add member"),
		"Form":  form,
	}
	if formErr != nil {
		data["FormError"] = formErr.message(currentMessages(c))
		data["ErrorField"] = formErr.Field
	}
	c.Status(status)
	return handler.render(c, "add_member", data)
}

func (handler *Handler) AddMember(c *fiber.Ctx) error {
	form := addMemberForm{}
	if err := c.BodyParser(&form); err != nil {
		return handler.respondAddMemberFormError(c, fiber.StatusBadRequest, form, &formError{Key: "error.invalid_input"})
	}
	form.trim()
	if formErr := handler.validateForm(&form); formErr != nil {
		return handler.respondAddMemberFormError(c, fiber.StatusBadRequest, form, formErr)
	}
	input, formErr := form.toInput()
	if formErr != nil {
		return handler.respondAddMemberFormError(c, fiber.StatusBadRequest, form, formErr)
	}

	if header := uploadedPhoto(c); header != nil {
		file, err := header.Open()
		if err != nil {
			return handler.respondAddMemberFormError(c, fiber.StatusBadRequest, form, &formError{Field: "photo", Key: "error.invalid_input"})
		}
		defer file.Close()
		input.Photo = &services.PhotoUpload{Filename: header.Filename, Content: file}
	}

	member, err := handler.members.CreateMember(c.UserContext(), input)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			return handler.respondAddMemberFormError(c, fiber.StatusBadRequest, form, formErrorFromValidation(validationErr))
		}
		status, message := handler.describeMemberError(c, err)
		if acceptsJSON(c) {
			return apiError(c, status, message)
		}
		c.Status(status)
		return handler.render(c, "add_member", fiber.Map{
			"Title":     localizedPageTitle(currentMessages(c), "meta.title.add_member", "Gymdesk | Add member"),
			"Form":      form,
			"FormError": message,
		})
	}

	if acceptsJSON(c) {
		return c.Status(fiber.StatusCreated).JSON(member)
	}
	handler.flashSuccess(c, "flash.member_added")
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func (handler *Handler) respondAddMemberFormError(c *fiber.Ctx, status int, form addMemberForm, formErr *formError) error {
	if acceptsJSON(c) {
		return c.Status(status).JSON(fiber.Map{
			"error": formErr.message(currentMessages(c)),
			"field": formErr.Field,
		})
	}
	return handler.renderAddMemberForm(c, status, form, formErr)
}

// UpdateDueDate records a payment. An unknown member id always yields the
// JSON 404, whatever the amount field holds.
func (handler *Handler) UpdateDueDate(c *fiber.Ctx) error {
	memberID, ok := parseIDParam(c, "member_id")
	if !ok {
		return apiError(c, fiber.StatusNotFound, memberNotFoundMessage)
	}

	form := paymentForm{}
	parseErr := c.BodyParser(&form)
	amount, amountOK := parsePaymentAmount(form)
	if parseErr != nil || handler.validateForm(&form) != nil || !amountOK {
		if _, err := handler.members.GetMember(c.UserContext(), memberID); err != nil {
			return handler.respondMemberError(c, err, "/dashboard")
		}
		message := (&formError{Field: "payment_amount", Key: "validation.number"}).message(currentMessages(c))
		if acceptsJSON(c) {
			return apiError(c, fiber.StatusBadRequest, message)
		}
		handler.flashError(c, message)
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	member, err := handler.members.RecordPayment(c.UserContext(), memberID, amount)
	if err != nil {
		return handler.respondMemberError(c, err, "/dashboard")
	}

	if acceptsJSON(c) {
		return c.JSON(member)
	}
	handler.setFlashCookie(c, FlashPayload{
		Success: translateMessagef(currentMessages(c), "flash.payment_recorded", member.Username, member.DueDate.Format(dateLayout)),
	})
	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func (handler *Handler) DeleteMember(c *fiber.Ctx) error {
	memberID, ok := parseIDParam(c, "user_id")
	if !ok {
		return handler.respondMemberNotFound(c)
	}

	if err := handler.members.DeleteMember(c.UserContext(), memberID); err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return handler.respondMemberNotFound(c)
		}
		return handler.respondMemberError(c, err, "/dashboard")
	}

	if !acceptsJSON(c) {
		handler.flashSuccess(c, "flash.member_deleted")
	}
	return redirectOrJSON(c, "/dashboard")
}

func (handler *Handler) ViewMember(c *fiber.Ctx) error {
	memberID, ok := parseIDParam(c, "user_id")
	if !ok {
		return handler.respondMemberNotFound(c)
	}

	member, err := handler.members.GetMember(c.UserContext(), memberID)
	if err != nil {
		if errors.Is(err, services.ErrMemberNotFound) {
			return handler.respondMemberNotFound(c)
		}
		return handler.internalError(c, "get member", err)
	}

	today := handler.members.Today()
	row := buildMemberRows([]models.Member{member}, today)[0]
	if acceptsJSON(c) {
		return c.JSON(row)
	}
	return handler.render(c, "member", fiber.Map{
		"Title":  localizedPageTitle(currentMessages(c), "meta.title.member", "Gymdesk | Member"),
		"Member": row,
		"Today":  today,
	})
}

func (handler *Handler) ServeMemberPhoto(c *fiber.Ctx) error {
	path, err := handler.photos.Open(c.Params("filename"))
	if err != nil {
		if !errors.Is(err, storage.ErrPhotoNotFound) && !errors.Is(err, storage.ErrInvalidFilename) {
			handler.log.Warn("open member photo", zap.String("request_id", requestID(c)), zap.Error(err))
		}
		return c.SendStatus(fiber.StatusNotFound)
	}
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.SendFile(path)
}

func (handler *Handler) respondMemberNotFound(c *fiber.Ctx) error {
	if acceptsJSON(c) {
		return apiError(c, fiber.StatusNotFound, memberNotFoundMessage)
	}
	return handler.renderNotFound(c, "member.not_found")
}

func (handler *Handler) internalError(c *fiber.Ctx, operation string, err error) error {
	handler.log.Error(operation, zap.String("request_id", requestID(c)), zap.Error(err))
	if acceptsJSON(c) {
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
	return c.Status(fiber.StatusInternalServerError).SendString(translateMessage(currentMessages(c), "error.internal"))
}
