package models

import (
	"gorm.io/gorm"
)

type Specialty struct {
	gorm.Model
	Title       string `json:"title" gorm:"unique;not null"`
	Description string `json:"description"`
	Icon        string `json:"icon"` // Uploaded icon URL
}
