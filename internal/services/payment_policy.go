package services

import (
	"math"
	"time"

	"github.com/terraincognita07/gymdesk/internal/models"
)

func ValidatePaymentAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return newValidationError("payment_amount", "must be a number")
	}
	if amount < 0 {
		return newValidationError("payment_amount", "must not be negative")
	}
	return nil
}

// ApplyPayment accepts amount when it is at least the previously recorded
// payment: the due date moves forward one membership period from its stored
// value, not from today. A rejected payment leaves member untouched.
func ApplyPayment(member *models.Member, amount float64, today time.Time) error {
	if err := ValidatePaymentAmount(amount); err != nil {
		return err
	}
	if amount < member.AmountPaid {
		return &InsufficientPaymentError{Offered: amount, Required: member.AmountPaid}
	}

	member.DueDate = AddMembershipPeriod(member.DueDate)
	member.AmountPaid = amount
	member.LastPaid = today
	return nil
}
