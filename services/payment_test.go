package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/clinicore/clinic-backend/gateway"
	"github.com/clinicore/clinic-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func checkoutCompletedEvent(t *testing.T, eventID string, appointmentID, paymentID uint) *gateway.Event {
	return checkoutEvent(t, eventID, appointmentID, paymentID, "paid")
}

func checkoutEvent(t *testing.T, eventID string, appointmentID, paymentID uint, paymentStatus string) *gateway.Event {
	t.Helper()

	payload := fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"payment_status": %q,
				"metadata": {
					"appointment_id": "%d",
					"payment_id": "%d"
				}
			}
		}
	}`, eventID, paymentStatus, appointmentID, paymentID)

	event, err := gateway.ParseEvent([]byte(payload))
	require.NoError(t, err)
	return event
}

func bookForTest(t *testing.T, db *gorm.DB) *BookingResult {
	t.Helper()

	doctor := seedDoctor(t, db, 100)
	patient := seedPatient(t, db)
	slot := seedSlot(t, db, doctor.ID, time.Now().Add(24*time.Hour))

	svc := newAppointmentService(db, &fakeGateway{})
	result, err := svc.ReserveWithoutPayment(context.Background(), doctor.ID, slot.ID, patient.ID)
	require.NoError(t, err)
	return result
}

func TestHandleCheckoutCompleted(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())
	booking := bookForTest(t, db)

	event := checkoutCompletedEvent(t, "evt_1", booking.Appointment.ID, booking.Payment.ID)
	outcome, err := svc.HandleGatewayEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, OutcomeProcessed, outcome)

	var appointment models.Appointment
	require.NoError(t, db.First(&appointment, booking.Appointment.ID).Error)
	assert.Equal(t, models.PaymentPaid, appointment.PaymentStatus)
	assert.Equal(t, models.StatusScheduled, appointment.Status)

	var payment models.Payment
	require.NoError(t, db.First(&payment, booking.Payment.ID).Error)
	assert.Equal(t, models.PaymentPaid, payment.Status)
	require.NotNil(t, payment.GatewayEventID)
	assert.Equal(t, "evt_1", *payment.GatewayEventID)
	assert.NotEmpty(t, payment.GatewayPayload)
}

func TestHandleEventRedelivery(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())
	booking := bookForTest(t, db)

	event := checkoutCompletedEvent(t, "evt_dup", booking.Appointment.ID, booking.Payment.ID)

	outcome, err := svc.HandleGatewayEvent(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, outcome)

	var before models.Payment
	require.NoError(t, db.First(&before, booking.Payment.ID).Error)

	outcome, err = svc.HandleGatewayEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyProcessed, outcome)

	var after models.Payment
	require.NoError(t, db.First(&after, booking.Payment.ID).Error)
	assert.Equal(t, before.Status, after.Status)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestHandleEventPaidIsTerminal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())
	booking := bookForTest(t, db)

	outcome, err := svc.HandleGatewayEvent(context.Background(),
		checkoutCompletedEvent(t, "evt_settle", booking.Appointment.ID, booking.Payment.ID))
	require.NoError(t, err)
	require.Equal(t, OutcomeProcessed, outcome)

	// A later session for the same payment can end unpaid; with a fresh
	// event id it passes the dedupe but must not demote the settled payment.
	outcome, err = svc.HandleGatewayEvent(context.Background(),
		checkoutEvent(t, "evt_demote", booking.Appointment.ID, booking.Payment.ID, "unpaid"))
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyProcessed, outcome)

	var appointment models.Appointment
	require.NoError(t, db.First(&appointment, booking.Appointment.ID).Error)
	assert.Equal(t, models.PaymentPaid, appointment.PaymentStatus)

	var payment models.Payment
	require.NoError(t, db.First(&payment, booking.Payment.ID).Error)
	assert.Equal(t, models.PaymentPaid, payment.Status)
	require.NotNil(t, payment.GatewayEventID)
	assert.Equal(t, "evt_settle", *payment.GatewayEventID)
}

func TestHandleEventCompletedAppointment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())
	booking := bookForTest(t, db)

	require.NoError(t, db.Model(&models.Appointment{}).
		Where("id = ?", booking.Appointment.ID).
		Update("status", models.StatusCompleted).Error)

	outcome, err := svc.HandleGatewayEvent(context.Background(),
		checkoutCompletedEvent(t, "evt_after_visit", booking.Appointment.ID, booking.Payment.ID))
	require.NoError(t, err)
	assert.Equal(t, OutcomeStale, outcome)

	var payment models.Payment
	require.NoError(t, db.First(&payment, booking.Payment.ID).Error)
	assert.Equal(t, models.PaymentUnpaid, payment.Status)
	assert.Nil(t, payment.GatewayEventID)
}

func TestHandleEventMissingMetadata(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())

	payload := `{
		"id": "evt_no_meta",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_2", "payment_status": "paid", "metadata": {}}}
	}`
	event, err := gateway.ParseEvent([]byte(payload))
	require.NoError(t, err)

	outcome, err := svc.HandleGatewayEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMalformed, outcome)
}

func TestHandleEventUnknownRecords(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())

	event := checkoutCompletedEvent(t, "evt_ghost", 4242, 4242)
	outcome, err := svc.HandleGatewayEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, OutcomeMalformed, outcome)
}

func TestHandleEventCanceledAppointment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())
	booking := bookForTest(t, db)

	require.NoError(t, db.Model(&models.Appointment{}).
		Where("id = ?", booking.Appointment.ID).
		Update("status", models.StatusCanceled).Error)

	event := checkoutCompletedEvent(t, "evt_late", booking.Appointment.ID, booking.Payment.ID)
	outcome, err := svc.HandleGatewayEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, OutcomeStale, outcome)

	// A late payment never resurrects a canceled appointment.
	var appointment models.Appointment
	require.NoError(t, db.First(&appointment, booking.Appointment.ID).Error)
	assert.Equal(t, models.StatusCanceled, appointment.Status)
	assert.Equal(t, models.PaymentUnpaid, appointment.PaymentStatus)
}

func TestHandleEventExpiredAndFailed(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())
	booking := bookForTest(t, db)

	for i, eventType := range []string{gateway.EventCheckoutExpired, gateway.EventPaymentFailed} {
		payload := fmt.Sprintf(`{
			"id": "evt_noop_%d",
			"type": %q,
			"data": {"object": {"id": "cs_test_3", "metadata": {"appointment_id": "%d", "payment_id": "%d"}}}
		}`, i, eventType, booking.Appointment.ID, booking.Payment.ID)
		event, err := gateway.ParseEvent([]byte(payload))
		require.NoError(t, err)

		outcome, err := svc.HandleGatewayEvent(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, OutcomeIgnored, outcome)
	}

	var payment models.Payment
	require.NoError(t, db.First(&payment, booking.Payment.ID).Error)
	assert.Equal(t, models.PaymentUnpaid, payment.Status)
}

func TestHandleEventUnknownType(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPaymentService(db, zap.NewNop())

	payload := `{"id": "evt_other", "type": "customer.created", "data": {"object": {"id": "cus_1"}}}`
	event, err := gateway.ParseEvent([]byte(payload))
	require.NoError(t, err)

	outcome, err := svc.HandleGatewayEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnhandled, outcome)
}
