package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/clinicore/clinic-backend/gateway"
	"github.com/clinicore/clinic-backend/models"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Outcome tells the webhook controller what happened to an event. None of
// these are errors: the gateway gets a 200 either way and must not retry.
type Outcome string

const (
	OutcomeProcessed        Outcome = "processed"
	OutcomeAlreadyProcessed Outcome = "already processed"
	OutcomeMalformed        Outcome = "malformed"
	OutcomeStale            Outcome = "stale"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeUnhandled        Outcome = "unhandled"
)

// PaymentService applies asynchronous gateway events to local payment state.
// Gateways redeliver events, so everything here is keyed on the event id and
// re-application is a no-op.
type PaymentService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewPaymentService(db *gorm.DB, log *zap.Logger) *PaymentService {
	return &PaymentService{db: db, log: log}
}

// HandleGatewayEvent reconciles one webhook delivery. Malformed or foreign
// events produce a diagnostic outcome, never an error the gateway could act
// on. Only infrastructure faults (the database going away) return non-nil.
func (s *PaymentService) HandleGatewayEvent(ctx context.Context, event *gateway.Event) (Outcome, error) {
	var existing models.Payment
	err := s.db.WithContext(ctx).
		Where("gateway_event_id = ?", event.ID).
		First(&existing).Error
	if err == nil {
		s.log.Warn("gateway event already processed, skipping",
			zap.String("event_id", event.ID))
		return OutcomeAlreadyProcessed, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	switch event.Type {
	case gateway.EventCheckoutCompleted:
		return s.applyCheckoutCompleted(ctx, event)

	case gateway.EventCheckoutExpired:
		s.log.Info("checkout session expired, leaving payment unpaid",
			zap.String("event_id", event.ID),
			zap.String("session_id", event.Data.Object.ID))
		return OutcomeIgnored, nil

	case gateway.EventPaymentFailed:
		s.log.Info("payment failed, leaving payment unpaid",
			zap.String("event_id", event.ID),
			zap.String("session_id", event.Data.Object.ID))
		return OutcomeIgnored, nil

	default:
		s.log.Warn("unhandled gateway event type",
			zap.String("event_id", event.ID),
			zap.String("type", event.Type))
		return OutcomeUnhandled, nil
	}
}

func (s *PaymentService) applyCheckoutCompleted(ctx context.Context, event *gateway.Event) (Outcome, error) {
	session := event.Data.Object

	appointmentID, okA := parseMetadataID(session.Metadata, "appointment_id")
	paymentID, okP := parseMetadataID(session.Metadata, "payment_id")
	if !okA || !okP {
		s.log.Error("missing appointment_id or payment_id in session metadata",
			zap.String("event_id", event.ID))
		return OutcomeMalformed, nil
	}

	var appointment models.Appointment
	if err := s.db.WithContext(ctx).First(&appointment, appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("gateway event references unknown appointment",
				zap.String("event_id", event.ID),
				zap.Uint("appointment_id", appointmentID))
			return OutcomeMalformed, nil
		}
		return "", err
	}

	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Error("gateway event references unknown payment",
				zap.String("event_id", event.ID),
				zap.Uint("payment_id", paymentID))
			return OutcomeMalformed, nil
		}
		return "", err
	}

	// The appointment may have been reaped or completed before a late event
	// landed. Record the fact and leave it alone; resurrection is a manual
	// call.
	if appointment.Status == models.StatusCanceled || appointment.Status == models.StatusCompleted {
		s.log.Warn("gateway event arrived for a closed appointment",
			zap.String("event_id", event.ID),
			zap.Uint("appointment_id", appointment.ID),
			zap.String("status", string(appointment.Status)))
		return OutcomeStale, nil
	}

	// PAID is terminal. InitiatePayment can open several checkout sessions
	// for one payment, and a later session ending unpaid must not demote a
	// settled one.
	if payment.Status == models.PaymentPaid {
		s.log.Warn("gateway event arrived for an already settled payment",
			zap.String("event_id", event.ID),
			zap.Uint("payment_id", payment.ID))
		return OutcomeAlreadyProcessed, nil
	}

	status := models.PaymentUnpaid
	if session.PaymentStatus == "paid" {
		status = models.PaymentPaid
	}

	eventID := event.ID
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Appointment{}).
			Where("id = ?", appointment.ID).
			Update("payment_status", status).Error; err != nil {
			return err
		}

		return tx.Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Updates(map[string]interface{}{
				"status":           status,
				"gateway_event_id": &eventID,
				"gateway_payload":  datatypes.JSON(event.Raw),
			}).Error
	})
	if err != nil {
		return "", err
	}

	s.log.Info("processed checkout completion",
		zap.String("event_id", event.ID),
		zap.Uint("appointment_id", appointment.ID),
		zap.Uint("payment_id", payment.ID),
		zap.String("payment_status", string(status)))

	return OutcomeProcessed, nil
}

func parseMetadataID(metadata map[string]string, key string) (uint, bool) {
	raw, ok := metadata[key]
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
