package services

import (
	"errors"
	"fmt"
)

// Expected business outcomes. Controllers map these onto HTTP statuses;
// none of them should ever be retried by the caller.
var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrPatientNotFound     = errors.New("patient not found")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrSlotNotOffered      = errors.New("doctor does not offer this slot")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPaymentNotFound     = errors.New("payment not found for this appointment")
	ErrSlotAlreadyBooked   = errors.New("slot is already booked")
	ErrAlreadyPaid         = errors.New("payment already completed for this appointment")
	ErrAppointmentCanceled = errors.New("appointment is canceled")
)

// UpstreamError wraps a payment-gateway failure. The reservation it
// interrupted was rolled back, so the caller may safely retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("payment gateway %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
