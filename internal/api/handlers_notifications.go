package api

import (
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ShowNotifications(c *fiber.Ctx) error {
	today := handler.members.Today()
	notices, err := handler.notifications.RenewalNotices(c.UserContext(), today)
	if err != nil {
		return handler.internalError(c, "renewal notices", err)
	}

	if acceptsJSON(c) {
		members := make([]memberRow, 0, len(notices))
		for _, notice := range notices {
			members = append(members, memberRow{Member: notice.Member, Overdue: true, DaysOverdue: notice.DaysOverdue})
		}
		return c.JSON(fiber.Map{
			"today":   today.Format(dateLayout),
			"members": members,
		})
	}

	return handler.render(c, "notifications", fiber.Map{
		"Title":   localizedPageTitle(currentMessages(c), "meta.title.notifications", "Gymdesk | Renewals"),
		"Notices": notices,
		"Today":   today,
	})
}
