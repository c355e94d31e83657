package models

import (
	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	UserID        uint   `json:"user_id" gorm:"uniqueIndex"`
	User          User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Name          string `json:"name"`
	Email         string `json:"email" gorm:"unique"`
	ContactNumber string `json:"contact_number"`
	Address       string `json:"address"`
	ProfilePhoto  string `json:"profile_photo"`
}
