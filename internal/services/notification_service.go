package services

import (
	"context"
	"time"

	"github.com/terraincognita07/gymdesk/internal/models"
)

type RenewalNotice struct {
	Member      models.Member
	DaysOverdue int
	DueToday    bool
}

type NotificationService struct {
	members *MemberService
}

func NewNotificationService(members *MemberService) *NotificationService {
	return &NotificationService{members: members}
}

// RenewalNotices lists every member whose due date is on or before asOf,
// oldest due date first.
func (service *NotificationService) RenewalNotices(ctx context.Context, asOf time.Time) ([]RenewalNotice, error) {
	day := CalendarDate(asOf, time.UTC)
	due, err := service.members.ListDueOrOverdue(ctx, day)
	if err != nil {
		return nil, err
	}

	notices := make([]RenewalNotice, 0, len(due))
	for _, member := range due {
		notices = append(notices, RenewalNotice{
			Member:      member,
			DaysOverdue: DaysOverdue(member, day),
			DueToday:    SameDay(member.DueDate, day),
		})
	}
	return notices, nil
}
