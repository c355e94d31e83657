package routes

import (
	"github.com/clinicore/clinic-backend/controllers"
	"github.com/clinicore/clinic-backend/middleware"
	"github.com/clinicore/clinic-backend/models"
	"github.com/gofiber/fiber/v2"
)

// SetupAppointmentRoutes configures booking and appointment lifecycle routes
func SetupAppointmentRoutes(app *fiber.App, ctl *controllers.AppointmentController) {
	appointment := app.Group("/appointments", middleware.Protected())

	appointment.Post("/", middleware.RequireRole(models.RolePatient), ctl.BookAppointment)
	appointment.Post("/pay-later", middleware.RequireRole(models.RolePatient), ctl.BookAppointmentPayLater)
	appointment.Post("/:id/pay", middleware.RequireRole(models.RolePatient), ctl.InitiatePayment)

	appointment.Get("/me", middleware.RequireRole(models.RolePatient, models.RoleDoctor), ctl.GetMyAppointments)
	appointment.Get("/all", middleware.RequireRole(models.RoleAdmin), ctl.GetAllAppointments)
	appointment.Get("/:id", ctl.GetAppointment)

	appointment.Patch("/:id/status", middleware.RequireRole(models.RoleDoctor), ctl.ChangeAppointmentStatus)
}
