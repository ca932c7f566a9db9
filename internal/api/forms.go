package api

import (
	"errors"
	"mime/multipart"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/gymdesk/internal/services"
)

type loginForm struct {
	Email    string `form:"email" json:"email" validate:"required,max=254"`
	Password string `form:"password" json:"password" validate:"required,max=256"`
}

// addMemberForm is the wire shape of the add-member form. Everything arrives
// as text; numbers and dates are parsed only after the schema passed.
type addMemberForm struct {
	Username      string `form:"username" json:"username" validate:"required,max=100"`
	Email         string `form:"email" json:"email" validate:"required,max=100,email"`
	Phone         string `form:"phone" json:"phone" validate:"required,max=15"`
	AdmissionDate string `form:"admission_date" json:"admission_date" validate:"required,datetime=2006-01-02"`
	Amount        string `form:"amount" json:"amount" validate:"required,numeric"`
	DueDate       string `form:"due_date" json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

type paymentForm struct {
	PaymentAmount string `form:"payment_amount" json:"payment_amount" validate:"required,numeric"`
}

// formError points at one offending field; Key is a validation message key.
type formError struct {
	Field string
	Key   string
}

var validationTagKeys = map[string]string{
	"required": "validation.required",
	"max":      "validation.too_long",
	"email":    "validation.email",
	"datetime": "validation.date",
	"numeric":  "validation.number",
}

var serviceMessageKeys = map[string]string{
	"is required":                       "validation.required",
	"is too long":                       "validation.too_long",
	"must be a number":                  "validation.number",
	"must not be negative":              "validation.negative",
	"must not be before admission date": "validation.due_before_admission",
	"unsupported file type":             "validation.photo_type",
}

func newFormValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

func (handler *Handler) validateForm(form any) *formError {
	err := handler.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return &formError{Key: "error.invalid_input"}
	}

	first := fieldErrors[0]
	key, ok := validationTagKeys[first.Tag()]
	if !ok {
		key = "error.invalid_input"
	}
	return &formError{Field: first.Field(), Key: key}
}

func formErrorFromValidation(err *services.ValidationError) *formError {
	key, ok := serviceMessageKeys[err.Message]
	if !ok {
		key = "error.invalid_input"
	}
	return &formError{Field: err.Field, Key: key}
}

func (formErr *formError) message(messages map[string]string) string {
	text := translateMessage(messages, formErr.Key)
	if formErr.Field == "" {
		return text
	}
	return translateMessage(messages, "field."+formErr.Field) + ": " + text
}

func (form *addMemberForm) trim() {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.TrimSpace(form.Email)
	form.Phone = strings.TrimSpace(form.Phone)
	form.AdmissionDate = strings.TrimSpace(form.AdmissionDate)
	form.Amount = strings.TrimSpace(form.Amount)
	form.DueDate = strings.TrimSpace(form.DueDate)
}

// toInput parses dates as calendar days, which the member service stores as
// midnight UTC.
func (form addMemberForm) toInput() (services.CreateMemberInput, *formError) {
	admissionDate, err := time.Parse(dateLayout, form.AdmissionDate)
	if err != nil {
		return services.CreateMemberInput{}, &formError{Field: "admission_date", Key: "validation.date"}
	}
	amount, err := strconv.ParseFloat(form.Amount, 64)
	if err != nil {
		return services.CreateMemberInput{}, &formError{Field: "amount", Key: "validation.number"}
	}

	input := services.CreateMemberInput{
		Username:      form.Username,
		Email:         form.Email,
		Phone:         form.Phone,
		AdmissionDate: admissionDate,
		AmountPaid:    amount,
	}
	if form.DueDate != "" {
		dueDate, err := time.Parse(dateLayout, form.DueDate)
		if err != nil {
			return services.CreateMemberInput{}, &formError{Field: "due_date", Key: "validation.date"}
		}
		input.DueDate = &dueDate
	}
	return input, nil
}

// uploadedPhoto returns the "photo" part of a multipart body, or nil when the
// request is not multipart or the part was left empty.
func uploadedPhoto(c *fiber.Ctx) *multipart.FileHeader {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm) {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	files := form.File["photo"]
	if len(files) == 0 || files[0] == nil || strings.TrimSpace(files[0].Filename) == "" {
		return nil
	}
	return files[0]
}

func parsePaymentAmount(form paymentForm) (float64, bool) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(form.PaymentAmount), 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
