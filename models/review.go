package models

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	Rating        float64 `json:"rating" gorm:"type:decimal(2,1);not null"`
	Comment       string  `json:"comment"`
	DoctorID      uint    `json:"doctor_id"`
	Doctor        Doctor  `json:"doctor" gorm:"foreignKey:DoctorID"`
	PatientID     uint    `json:"patient_id"`
	Patient       Patient `json:"patient" gorm:"foreignKey:PatientID"`
	IsAnonymous   bool    `json:"is_anonymous" gorm:"default:false"`
	IsVerified    bool    `json:"is_verified" gorm:"default:false"` // Review from a completed appointment
	AppointmentID *uint   `json:"appointment_id"`
}

// BeforeCreate hook to clamp rating
func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.Rating < 1.0 {
		r.Rating = 1.0
	} else if r.Rating > 5.0 {
		r.Rating = 5.0
	}
	return nil
}

// HasExistingReview checks if the patient already reviewed this doctor.
func (r *Review) HasExistingReview(tx *gorm.DB) (bool, error) {
	var count int64
	err := tx.Model(&Review{}).
		Where("patient_id = ? AND doctor_id = ? AND deleted_at IS NULL",
			r.PatientID, r.DoctorID).
		Count(&count).Error

	return count > 0, err
}
