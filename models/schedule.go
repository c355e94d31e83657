package models

import (
	"time"

	"gorm.io/gorm"
)

// Schedule is a fixed-duration bookable time slot. The (start, end) pair is
// unique so regenerating a range never produces duplicates.
type Schedule struct {
	gorm.Model
	StartDateTime time.Time `json:"start_date_time" gorm:"uniqueIndex:idx_schedule_window;not null"`
	EndDateTime   time.Time `json:"end_date_time" gorm:"uniqueIndex:idx_schedule_window;not null"`
}
