package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nelnel19/BAHA-ALERT/controllers"
)

// Register attaches all API endpoints to the app.
func Register(app *fiber.App, h *controllers.Handlers) {
	api := app.Group("/api")

	reports := api.Group("/flood-reports")
	reports.Post("/", h.SubmitReport)
	reports.Get("/", h.ListReports)
	// Literal paths must come before the :id routes.
	reports.Get("/my-reports", h.MyReports)
	reports.Get("/reportcount", h.ReportCount)
	reports.Put("/:id", h.UpdateReport)
	reports.Delete("/:id", h.DeleteReport)

	api.Post("/flood-analyze", h.AnalyzeFlood)

	schedules := api.Group("/schedules")
	schedules.Get("/", h.ListSchedules)
	schedules.Get("/admin", h.ListSchedulesAdmin)
	schedules.Get("/count", h.ScheduleCount)
	schedules.Post("/", h.CreateSchedule)
	schedules.Patch("/:id", h.UpdateSchedule)
	schedules.Delete("/:id", h.DeleteSchedule)

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Put("/edit/:id", h.EditProfile)
	auth.Delete("/delete/:id", h.DeleteAccount)

	api.Post("/ai", h.Chat)
}
