package models

import (
	"gorm.io/gorm"
)

type Doctor struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"uniqueIndex"`
	User               User       `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name               string     `json:"name"`
	Email              string     `json:"email" gorm:"unique"`
	ContactNumber      string     `json:"contact_number"`
	Address            string     `json:"address"`
	RegistrationNumber string     `json:"registration_number"`
	Experience         int        `json:"experience"` // Years of practice
	AppointmentFee     float64    `json:"appointment_fee"`
	Qualification      string     `json:"qualification"`
	CurrentWorkplace   string     `json:"current_workplace"`
	ProfilePhoto       string     `json:"profile_photo"`
	SpecialtyID        *uint      `json:"specialty_id"`
	Specialty          *Specialty `json:"specialty,omitempty" gorm:"foreignKey:SpecialtyID"`
	IsDeleted          bool       `json:"is_deleted" gorm:"default:false"`
	AverageRating      float64    `json:"average_rating" gorm:"default:0"`
}
