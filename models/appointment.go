package models

import (
	"fmt"

	"gorm.io/gorm"
)

type AppointmentStatus string

type PaymentStatus string

const (
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCanceled  AppointmentStatus = "CANCELED"
)

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

type Appointment struct {
	gorm.Model
	DoctorID       uint              `json:"doctor_id" gorm:"index"`
	Doctor         Doctor            `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	PatientID      uint              `json:"patient_id" gorm:"index"`
	Patient        Patient           `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	ScheduleID     uint              `json:"schedule_id" gorm:"index"`
	Schedule       Schedule          `json:"schedule,omitempty" gorm:"foreignKey:ScheduleID"`
	Status         AppointmentStatus `json:"status"`
	PaymentStatus  PaymentStatus     `json:"payment_status"`
	VideoCallingID string            `json:"video_calling_id"`
	Payment        *Payment          `json:"payment,omitempty" gorm:"foreignKey:AppointmentID"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if a.PaymentStatus == "" {
		a.PaymentStatus = PaymentUnpaid
	}
	return nil
}

// UpdateStatus enforces the appointment lifecycle: a scheduled appointment can
// complete or cancel, completed and canceled are terminal.
func (a *Appointment) UpdateStatus(tx *gorm.DB, newStatus AppointmentStatus) error {
	switch a.Status {
	case StatusScheduled:
		if newStatus != StatusCompleted && newStatus != StatusCanceled {
			return fmt.Errorf("invalid transition from %s to %s", a.Status, newStatus)
		}
	case StatusCompleted, StatusCanceled:
		return fmt.Errorf("no transitions allowed from %s", a.Status)
	}

	a.Status = newStatus
	if err := tx.Save(a).Error; err != nil {
		return err
	}

	// Canceling an appointment hands the slot back.
	if newStatus == StatusCanceled {
		return tx.Model(&DoctorSchedule{}).
			Where("doctor_id = ? AND schedule_id = ?", a.DoctorID, a.ScheduleID).
			Update("is_booked", false).Error
	}

	return nil
}
