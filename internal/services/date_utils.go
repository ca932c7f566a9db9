package services

import (
	"time"

	"github.com/terraincognita07/gymdesk/internal/models"
)

// CalendarDate returns the calendar day of value as seen in location,
// represented as midnight UTC. All stored member dates use this form.
func CalendarDate(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day := value.In(location).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func AddMembershipPeriod(date time.Time) time.Time {
	return date.AddDate(0, 0, models.MembershipPeriodDays)
}

func IsOverdue(member models.Member, today time.Time) bool {
	return !member.DueDate.After(today)
}

// DaysOverdue is zero on the due date and negative before it.
func DaysOverdue(member models.Member, today time.Time) int {
	return int(today.Sub(member.DueDate).Hours() / 24)
}

func SameDay(left time.Time, right time.Time) bool {
	leftYear, leftMonth, leftDay := left.Date()
	rightYear, rightMonth, rightDay := right.Date()
	return leftYear == rightYear && leftMonth == rightMonth && leftDay == rightDay
}
