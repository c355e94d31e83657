package models

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openModelDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Schedule{}, &DoctorSchedule{}, &Appointment{}))
	return db
}

func TestAppointmentDefaults(t *testing.T) {
	db := openModelDB(t)

	appointment := Appointment{DoctorID: 1, PatientID: 1, ScheduleID: 1}
	require.NoError(t, db.Create(&appointment).Error)

	assert.Equal(t, StatusScheduled, appointment.Status)
	assert.Equal(t, PaymentUnpaid, appointment.PaymentStatus)
}

func TestAppointmentStatusTransitions(t *testing.T) {
	db := openModelDB(t)

	appointment := Appointment{DoctorID: 1, PatientID: 1, ScheduleID: 1}
	require.NoError(t, db.Create(&appointment).Error)

	require.NoError(t, appointment.UpdateStatus(db, StatusCompleted))
	assert.Equal(t, StatusCompleted, appointment.Status)

	// Completed is terminal.
	assert.Error(t, appointment.UpdateStatus(db, StatusCanceled))
	assert.Error(t, appointment.UpdateStatus(db, StatusScheduled))
}

func TestAppointmentCancelReleasesSlot(t *testing.T) {
	db := openModelDB(t)

	assignment := DoctorSchedule{DoctorID: 1, ScheduleID: 1, IsBooked: true}
	require.NoError(t, db.Create(&assignment).Error)

	appointment := Appointment{DoctorID: 1, PatientID: 1, ScheduleID: 1}
	require.NoError(t, db.Create(&appointment).Error)

	require.NoError(t, appointment.UpdateStatus(db, StatusCanceled))

	var after DoctorSchedule
	require.NoError(t, db.
		Where("doctor_id = ? AND schedule_id = ?", 1, 1).
		First(&after).Error)
	assert.False(t, after.IsBooked)

	// Canceled is terminal too.
	assert.Error(t, appointment.UpdateStatus(db, StatusScheduled))
}
