package routes

import (
	"github.com/clinicore/clinic-backend/controllers"
	"github.com/clinicore/clinic-backend/middleware"
	"github.com/clinicore/clinic-backend/models"
	"github.com/gofiber/fiber/v2"
)

func SetupSpecialtyRoutes(app *fiber.App) {
	specialty := app.Group("/specialties")
	specialty.Get("/", controllers.GetAllSpecialties)
	specialty.Get("/:id", controllers.GetSpecialty)
	specialty.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), controllers.CreateSpecialty)
	specialty.Patch("/:id", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), controllers.UpdateSpecialty)
	specialty.Delete("/:id", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), controllers.DeleteSpecialty)
}
