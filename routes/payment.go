package routes

import (
	"github.com/clinicore/clinic-backend/controllers"
	"github.com/gofiber/fiber/v2"
)

// SetupPaymentRoutes configures the payment gateway webhook route.
// The webhook is authenticated by signature, not by JWT, so it stays public.
func SetupPaymentRoutes(app *fiber.App, ctl *controllers.PaymentController) {
	payment := app.Group("/payments")
	payment.Post("/webhook", ctl.HandleWebhook)
}
