package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicore/clinic-backend/gateway"
	"github.com/clinicore/clinic-backend/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutGateway is the slice of the payment gateway the booking flow
// needs; tests swap in a fake.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, params gateway.CheckoutParams) (*gateway.CheckoutSession, error)
}

// AppointmentService owns the reservation lifecycle: booking a slot against
// concurrent bidders, opening gateway checkouts and reclaiming abandoned
// reservations.
type AppointmentService struct {
	db       *gorm.DB
	gateway  CheckoutGateway
	currency string
	log      *zap.Logger
}

func NewAppointmentService(db *gorm.DB, gw CheckoutGateway, currency string, log *zap.Logger) *AppointmentService {
	if currency == "" {
		currency = "usd"
	}
	return &AppointmentService{db: db, gateway: gw, currency: currency, log: log}
}

// BookingResult is what a successful reservation hands back to the caller.
// CheckoutURL is empty for pay-later bookings.
type BookingResult struct {
	Appointment models.Appointment `json:"appointment"`
	Payment     models.Payment     `json:"payment"`
	CheckoutURL string             `json:"checkout_url,omitempty"`
}

// Reserve books the slot, creates the appointment/payment pair and opens a
// gateway checkout, all or nothing. If the gateway call fails the whole
// reservation rolls back and the slot stays free.
func (s *AppointmentService) Reserve(ctx context.Context, doctorID, scheduleID, patientID uint) (*BookingResult, error) {
	return s.book(ctx, doctorID, scheduleID, patientID, true)
}

// ReserveWithoutPayment books the slot and leaves the payment unpaid with no
// checkout session; the patient pays later through InitiatePayment.
func (s *AppointmentService) ReserveWithoutPayment(ctx context.Context, doctorID, scheduleID, patientID uint) (*BookingResult, error) {
	return s.book(ctx, doctorID, scheduleID, patientID, false)
}

func (s *AppointmentService) book(ctx context.Context, doctorID, scheduleID, patientID uint, withCheckout bool) (*BookingResult, error) {
	var patient models.Patient
	if err := s.db.WithContext(ctx).First(&patient, patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	var doctor models.Doctor
	if err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", doctorID, false).
		First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	var schedule models.Schedule
	if err := s.db.WithContext(ctx).First(&schedule, scheduleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, err
	}

	var assignment models.DoctorSchedule
	if err := s.db.WithContext(ctx).
		Where("doctor_id = ? AND schedule_id = ?", doctorID, scheduleID).
		First(&assignment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSlotNotOffered
		}
		return nil, err
	}

	result := &BookingResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The conditional update is the reservation point: of any number of
		// concurrent bookings for this slot exactly one flips is_booked and
		// the rest see zero rows affected.
		res := tx.Model(&models.DoctorSchedule{}).
			Where("doctor_id = ? AND schedule_id = ? AND is_booked = ?", doctorID, scheduleID, false).
			Update("is_booked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrSlotAlreadyBooked
		}

		appointment := models.Appointment{
			DoctorID:       doctorID,
			PatientID:      patientID,
			ScheduleID:     scheduleID,
			Status:         models.StatusScheduled,
			PaymentStatus:  models.PaymentUnpaid,
			VideoCallingID: uuid.NewString(),
		}
		if err := tx.Create(&appointment).Error; err != nil {
			return err
		}

		payment := models.Payment{
			AppointmentID: appointment.ID,
			Amount:        doctor.AppointmentFee,
			TransactionID: uuid.NewString(),
			Status:        models.PaymentUnpaid,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		result.Appointment = appointment
		result.Payment = payment

		if !withCheckout {
			return nil
		}

		session, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
			Amount:        doctor.AppointmentFee,
			Currency:      s.currency,
			ProductName:   fmt.Sprintf("Appointment with Dr. %s", doctor.Name),
			AppointmentID: appointment.ID,
			PaymentID:     payment.ID,
		})
		if err != nil {
			// Rolls back the appointment, payment and slot flag together.
			return &UpstreamError{Op: "create checkout session", Err: err}
		}
		result.CheckoutURL = session.URL
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("slot reserved",
		zap.Uint("appointment_id", result.Appointment.ID),
		zap.Uint("doctor_id", doctorID),
		zap.Uint("schedule_id", scheduleID),
		zap.Bool("checkout_opened", withCheckout))

	return result, nil
}

// InitiatePayment opens a fresh checkout session for an existing unpaid,
// non-canceled appointment owned by the calling patient.
func (s *AppointmentService) InitiatePayment(ctx context.Context, appointmentID, patientID uint) (string, error) {
	var appointment models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Payment").Preload("Doctor").
		Where("id = ? AND patient_id = ?", appointmentID, patientID).
		First(&appointment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAppointmentNotFound
		}
		return "", err
	}

	if appointment.Payment == nil {
		return "", ErrPaymentNotFound
	}
	if appointment.Payment.Status == models.PaymentPaid {
		return "", ErrAlreadyPaid
	}
	if appointment.Status == models.StatusCanceled {
		return "", ErrAppointmentCanceled
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, gateway.CheckoutParams{
		Amount:        appointment.Payment.Amount,
		Currency:      s.currency,
		ProductName:   fmt.Sprintf("Appointment with Dr. %s", appointment.Doctor.Name),
		AppointmentID: appointment.ID,
		PaymentID:     appointment.Payment.ID,
	})
	if err != nil {
		return "", &UpstreamError{Op: "create checkout session", Err: err}
	}

	return session.URL, nil
}

// CancelUnpaidAppointments sweeps appointments that stayed unpaid past the
// grace window: each one is canceled, its payment row removed and its slot
// released for rebooking. Already-canceled appointments never match the
// predicate, so repeated sweeps are no-ops. Returns how many were reaped.
func (s *AppointmentService) CancelUnpaidAppointments(ctx context.Context, now time.Time, grace time.Duration) (int, error) {
	cutoff := now.Add(-grace)

	canceled := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expired []models.Appointment
		if err := tx.
			Where("payment_status = ? AND status = ? AND created_at <= ?",
				models.PaymentUnpaid, models.StatusScheduled, cutoff).
			Find(&expired).Error; err != nil {
			return err
		}

		for _, appointment := range expired {
			// The cancel re-checks the full predicate so a payment settled
			// since the select is never reaped.
			res := tx.Model(&models.Appointment{}).
				Where("id = ? AND payment_status = ? AND status = ?",
					appointment.ID, models.PaymentUnpaid, models.StatusScheduled).
				Update("status", models.StatusCanceled)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}

			if err := tx.Unscoped().
				Where("appointment_id = ?", appointment.ID).
				Delete(&models.Payment{}).Error; err != nil {
				return err
			}

			if err := tx.Model(&models.DoctorSchedule{}).
				Where("doctor_id = ? AND schedule_id = ?", appointment.DoctorID, appointment.ScheduleID).
				Update("is_booked", false).Error; err != nil {
				return err
			}
			canceled++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if canceled > 0 {
		s.log.Info("unpaid appointments reaped",
			zap.Int("count", canceled),
			zap.Time("cutoff", cutoff))
	}

	return canceled, nil
}

// GetMyAppointments lists appointments for whoever is asking: patients see
// their bookings, doctors see their calendar.
func (s *AppointmentService) GetMyAppointments(ctx context.Context, patientID, doctorID uint) ([]models.Appointment, error) {
	var appointments []models.Appointment
	query := s.db.WithContext(ctx).
		Preload("Doctor").Preload("Patient").Preload("Schedule").Preload("Payment").
		Order("created_at desc")

	switch {
	case patientID != 0:
		query = query.Where("patient_id = ?", patientID)
	case doctorID != 0:
		query = query.Where("doctor_id = ?", doctorID)
	default:
		return nil, ErrAppointmentNotFound
	}

	if err := query.Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}
