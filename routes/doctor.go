package routes

import (
	"github.com/clinicore/clinic-backend/controllers"
	"github.com/clinicore/clinic-backend/middleware"
	"github.com/clinicore/clinic-backend/models"
	"github.com/gofiber/fiber/v2"
)

// SetupDoctorRoutes configures all doctor related routes
func SetupDoctorRoutes(app *fiber.App) {
	doctor := app.Group("/doctors")
	doctor.Get("/", controllers.GetAllDoctors)
	doctor.Get("/:id", controllers.GetDoctor)
	doctor.Get("/:id/reviews", controllers.GetDoctorReviews)
	doctor.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), controllers.CreateDoctor)
	doctor.Patch("/:id", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), controllers.UpdateDoctor)
	doctor.Delete("/:id", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), controllers.DeleteDoctor)
	doctor.Post("/me/photo", middleware.Protected(), middleware.RequireRole(models.RoleDoctor), controllers.UploadDoctorPhoto)
}
