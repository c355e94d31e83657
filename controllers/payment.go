package controllers

import (
	"log"
	"os"

	"github.com/clinicore/clinic-backend/gateway"
	"github.com/clinicore/clinic-backend/services"
	"github.com/clinicore/clinic-backend/utils"
	"github.com/gofiber/fiber/v2"
)

// PaymentController receives gateway webhooks and hands them to the
// reconciler.
type PaymentController struct {
	payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{payments: payments}
}

// HandleWebhook verifies the gateway signature, parses the event and applies
// it. Business outcomes are always acknowledged with 200 so the gateway
// stops redelivering; only infrastructure faults return 500.
func (ctl *PaymentController) HandleWebhook(c *fiber.Ctx) error {
	payload := c.Body()

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if secret != "" {
		if err := gateway.VerifySignature(payload, c.Get("Stripe-Signature"), secret); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
				Message: "Invalid webhook signature",
				Error:   err.Error(),
			})
		}
	} else {
		log.Println("Warning: STRIPE_WEBHOOK_SECRET not set, skipping signature verification")
	}

	event, err := gateway.ParseEvent(payload)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid webhook payload",
			Error:   err.Error(),
		})
	}

	outcome, err := ctl.payments.HandleGatewayEvent(c.Context(), event)
	if err != nil {
		log.Printf("Failed to process gateway event %s: %v", event.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to process event",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"event_id": event.ID,
		"outcome":  outcome,
	})
}
