package models

import (
	"time"
)

// DoctorSchedule binds a doctor to a slot they offer. IsBooked is true while
// exactly one live appointment holds the slot; booking flips it on, the
// unpaid-appointment sweep (or an explicit cancellation) flips it off again.
type DoctorSchedule struct {
	DoctorID   uint      `json:"doctor_id" gorm:"primaryKey"`
	Doctor     Doctor    `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	ScheduleID uint      `json:"schedule_id" gorm:"primaryKey"`
	Schedule   Schedule  `json:"schedule,omitempty" gorm:"foreignKey:ScheduleID"`
	IsBooked   bool      `json:"is_booked" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
