package services

import (
	"context"
	"testing"
	"time"

	"github.com/clinicore/clinic-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreateForDoctor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDoctorScheduleService(db, zap.NewNop())

	doctor := seedDoctor(t, db, 100)

	var slots []models.Schedule
	base := time.Now().Add(24 * time.Hour)
	for i := 0; i < 3; i++ {
		slot := models.Schedule{
			StartDateTime: base.Add(time.Duration(i) * time.Hour),
			EndDateTime:   base.Add(time.Duration(i)*time.Hour + 30*time.Minute),
		}
		require.NoError(t, db.Create(&slot).Error)
		slots = append(slots, slot)
	}

	assignments, err := svc.CreateForDoctor(context.Background(), doctor.ID,
		[]uint{slots[0].ID, slots[1].ID})
	require.NoError(t, err)
	assert.Len(t, assignments, 2)

	// Repeating with an extended list only adds the new slot.
	assignments, err = svc.CreateForDoctor(context.Background(), doctor.ID,
		[]uint{slots[0].ID, slots[1].ID, slots[2].ID})
	require.NoError(t, err)
	assert.Len(t, assignments, 3)

	var count int64
	require.NoError(t, db.Model(&models.DoctorSchedule{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)

	_, err = svc.CreateForDoctor(context.Background(), doctor.ID, []uint{9999})
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	_, err = svc.CreateForDoctor(context.Background(), 9999, []uint{slots[0].ID})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestGetAvailableForDoctor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDoctorScheduleService(db, zap.NewNop())

	doctor := seedDoctor(t, db, 100)
	now := time.Now()

	past := seedSlot(t, db, doctor.ID, now.Add(-2*time.Hour))
	future := seedSlot(t, db, doctor.ID, now.Add(24*time.Hour))
	booked := seedSlot(t, db, doctor.ID, now.Add(48*time.Hour))
	require.NoError(t, db.Model(&models.DoctorSchedule{}).
		Where("doctor_id = ? AND schedule_id = ?", doctor.ID, booked.ID).
		Update("is_booked", true).Error)

	available, err := svc.GetAvailableForDoctor(context.Background(), doctor.ID, now)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, future.ID, available[0].ScheduleID)
	assert.NotEqual(t, past.ID, available[0].ScheduleID)
}

func TestDeleteForDoctor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewDoctorScheduleService(db, zap.NewNop())

	doctor := seedDoctor(t, db, 100)
	free := seedSlot(t, db, doctor.ID, time.Now().Add(24*time.Hour))
	booked := seedSlot(t, db, doctor.ID, time.Now().Add(48*time.Hour))
	require.NoError(t, db.Model(&models.DoctorSchedule{}).
		Where("doctor_id = ? AND schedule_id = ?", doctor.ID, booked.ID).
		Update("is_booked", true).Error)

	require.NoError(t, svc.DeleteForDoctor(context.Background(), doctor.ID, free.ID))

	// Booked slots stay put.
	err := svc.DeleteForDoctor(context.Background(), doctor.ID, booked.ID)
	assert.ErrorIs(t, err, ErrSlotNotOffered)

	var count int64
	require.NoError(t, db.Model(&models.DoctorSchedule{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
