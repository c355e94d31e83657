package routes

import (
	"github.com/clinicore/clinic-backend/controllers"
	"github.com/clinicore/clinic-backend/middleware"
	"github.com/clinicore/clinic-backend/models"
	"github.com/gofiber/fiber/v2"
)

// SetupScheduleRoutes configures slot generation and doctor availability routes
func SetupScheduleRoutes(app *fiber.App, ctl *controllers.ScheduleController) {
	schedule := app.Group("/schedules")
	schedule.Get("/", ctl.GetSchedules)
	schedule.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), ctl.CreateSchedules)

	doctorSchedule := app.Group("/doctor-schedules", middleware.Protected())
	doctorSchedule.Get("/me", middleware.RequireRole(models.RoleDoctor), ctl.GetMySchedules)
	doctorSchedule.Post("/me", middleware.RequireRole(models.RoleDoctor), ctl.CreateMySchedules)
	doctorSchedule.Delete("/me/:id", middleware.RequireRole(models.RoleDoctor), ctl.DeleteMySchedule)

	// Patients browse a doctor's free future slots
	app.Get("/doctors/:id/availability", ctl.GetDoctorAvailability)
}
