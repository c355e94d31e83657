package routes

import (
	"github.com/clinicore/clinic-backend/controllers"
	"github.com/clinicore/clinic-backend/middleware"
	"github.com/clinicore/clinic-backend/models"
	"github.com/gofiber/fiber/v2"
)

// SetupPatientRoutes configures all patient related routes
func SetupPatientRoutes(app *fiber.App) {
	patient := app.Group("/patients", middleware.Protected())
	patient.Get("/me", controllers.GetPatientProfile)
	patient.Patch("/me", controllers.UpdatePatientProfile)
	patient.Get("/", middleware.RequireRole(models.RoleAdmin), controllers.GetAllPatients)
	patient.Get("/:id", middleware.RequireRole(models.RoleAdmin), controllers.GetPatient)
}
