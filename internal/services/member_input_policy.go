package services

import (
	"io"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxUsernameLength = 100
	MaxEmailLength    = 100
	MaxPhoneLength    = 15
)

type PhotoUpload struct {
	Filename string
	Content  io.Reader
}

func (upload *PhotoUpload) present() bool {
	return upload != nil && upload.Content != nil && strings.TrimSpace(upload.Filename) != ""
}

type CreateMemberInput struct {
	Username      string
	Email         string
	Phone         string
	AdmissionDate time.Time
	AmountPaid    float64
	DueDate       *time.Time
	Photo         *PhotoUpload
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeCreateMemberInput(input CreateMemberInput) CreateMemberInput {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = NormalizeEmail(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	return input
}

func validateCreateMemberInput(input CreateMemberInput) error {
	switch {
	case input.Username == "":
		return newValidationError("username", "is required")
	case utf8.RuneCountInString(input.Username) > MaxUsernameLength:
		return newValidationError("username", "is too long")
	case input.Email == "":
		return newValidationError("email", "is required")
	case utf8.RuneCountInString(input.Email) > MaxEmailLength:
		return newValidationError("email", "is too long")
	case input.Phone == "":
		return newValidationError("phone", "is required")
	case utf8.RuneCountInString(input.Phone) > MaxPhoneLength:
		return newValidationError("phone", "is too long")
	case input.AdmissionDate.IsZero():
		return newValidationError("admission_date", "is required")
	case math.IsNaN(input.AmountPaid) || math.IsInf(input.AmountPaid, 0):
		return newValidationError("amount", "must be a number")
	case input.AmountPaid < 0:
		return newValidationError("amount", "must not be negative")
	}

	if input.DueDate != nil && input.DueDate.Before(input.AdmissionDate) {
		return newValidationError("due_date", "must not be before admission date")
	}
	return nil
}
