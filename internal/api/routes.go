package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)

	app.Get("/", handler.ShowIndex)
	app.Get("/login", handler.ShowLoginPage)
	app.Post("/login", handler.Login)
	app.Get("/logout", handler.Logout)

	app.Get("/dashboard", handler.AdminRequired, handler.ShowDashboard)
	app.Get("/add_member", handler.AdminRequired, handler.ShowAddMemberPage)
	app.Post("/add_member", handler.AdminRequired, handler.AddMember)
	app.Post("/update_due_date/:member_id", handler.AdminRequired, handler.UpdateDueDate)
	app.Post("/delete_member/:user_id", handler.AdminRequired, handler.DeleteMember)
	app.Get("/view_member/:user_id", handler.AdminRequired, handler.ViewMember)
	app.Get("/member/photo/:filename", handler.AdminRequired, handler.ServeMemberPhoto)
	app.Get("/notifications", handler.AdminRequired, handler.ShowNotifications)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
