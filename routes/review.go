package routes

import (
	"github.com/clinicore/clinic-backend/controllers"
	"github.com/clinicore/clinic-backend/middleware"
	"github.com/clinicore/clinic-backend/models"
	"github.com/gofiber/fiber/v2"
)

// SetupReviewRoutes configures all review related routes
func SetupReviewRoutes(app *fiber.App) {
	review := app.Group("/reviews", middleware.Protected())
	review.Post("/", middleware.RequireRole(models.RolePatient), controllers.CreateReview)
	review.Delete("/:id", middleware.RequireRole(models.RolePatient), controllers.DeleteReview)
}
