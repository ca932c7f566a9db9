package services

import (
	"errors"
	"fmt"
)

var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrDuplicateMember     = errors.New("member already exists")
	ErrInsufficientPayment = errors.New("payment is less than previous amount")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidSession      = errors.New("invalid session token")
	ErrAdminNotFound       = errors.New("admin not found")
)

type ValidationError struct {
	Field   string
	Message string
}

func (err *ValidationError) Error() string {
	if err.Field == "" {
		return err.Message
	}
	return fmt.Sprintf("%s: %s", err.Field, err.Message)
}

func newValidationError(field string, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// DuplicateMemberError names the unique field that clashed: "username",
// "email", or empty when the store did not say.
type DuplicateMemberError struct {
	Field string
}

func (err *DuplicateMemberError) Error() string {
	if err.Field == "" {
		return ErrDuplicateMember.Error()
	}
	return fmt.Sprintf("%s already exists", err.Field)
}

func (err *DuplicateMemberError) Unwrap() error {
	return ErrDuplicateMember
}

type InsufficientPaymentError struct {
	Offered  float64
	Required float64
}

func (err *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("payment %.2f is less than previous amount %.2f", err.Offered, err.Required)
}

func (err *InsufficientPaymentError) Unwrap() error {
	return ErrInsufficientPayment
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}
