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

func TestGenerateSlots(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db, zap.NewNop())

	created, err := svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate:       "2026-09-01",
		EndDate:         "2026-09-01",
		StartTime:       "09:00",
		EndTime:         "10:00",
		IntervalMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, created, 2)

	assert.Equal(t, time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), created[0].StartDateTime)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC), created[0].EndDateTime)
	assert.Equal(t, time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC), created[1].StartDateTime)
	assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), created[1].EndDateTime)
}

func TestGenerateSlotsMultiDay(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db, zap.NewNop())

	created, err := svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate:       "2026-09-01",
		EndDate:         "2026-09-03",
		StartTime:       "09:00",
		EndTime:         "12:00",
		IntervalMinutes: 60,
	})
	require.NoError(t, err)
	assert.Len(t, created, 9)

	for _, slot := range created {
		assert.Equal(t, time.Hour, slot.EndDateTime.Sub(slot.StartDateTime))
	}
}

func TestGenerateSlotsDropsTrailingPartial(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db, zap.NewNop())

	// 09:00-10:15 with 30 minute slots: 09:00 and 09:30 fit, 10:00 would
	// overrun the window.
	created, err := svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate:       "2026-09-01",
		EndDate:         "2026-09-01",
		StartTime:       "09:00",
		EndTime:         "10:15",
		IntervalMinutes: 30,
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestGenerateSlotsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db, zap.NewNop())

	in := GenerateSlotsInput{
		StartDate:       "2026-09-01",
		EndDate:         "2026-09-02",
		StartTime:       "09:00",
		EndTime:         "11:00",
		IntervalMinutes: 30,
	}

	first, err := svc.GenerateSlots(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, first, 8)

	second, err := svc.GenerateSlots(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, second)

	var total int64
	require.NoError(t, db.Model(&models.Schedule{}).Count(&total).Error)
	assert.EqualValues(t, 8, total)
}

func TestGenerateSlotsOverlappingRerun(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db, zap.NewNop())

	first, err := svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate:       "2026-09-01",
		EndDate:         "2026-09-01",
		StartTime:       "09:00",
		EndTime:         "10:00",
		IntervalMinutes: 30,
	})
	require.NoError(t, err)
	require.Len(t, first, 2)

	// The wider rerun only yields the slots beyond the first window.
	second, err := svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate:       "2026-09-01",
		EndDate:         "2026-09-01",
		StartTime:       "09:00",
		EndTime:         "11:00",
		IntervalMinutes: 30,
	})
	require.NoError(t, err)
	assert.Len(t, second, 2)
}

func TestGenerateSlotsValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db, zap.NewNop())

	_, err := svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate: "not-a-date",
		EndDate:   "2026-09-01",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	assert.Error(t, err)

	_, err = svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate: "2026-09-02",
		EndDate:   "2026-09-01",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	assert.Error(t, err)
}

func TestGenerateSlotsDefaultInterval(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db, zap.NewNop())

	created, err := svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate: "2026-09-01",
		EndDate:   "2026-09-01",
		StartTime: "09:00",
		EndTime:   "10:00",
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, 30*time.Minute, created[0].EndDateTime.Sub(created[0].StartDateTime))
}

func TestGetSchedulesWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := NewScheduleService(db, zap.NewNop())

	_, err := svc.GenerateSlots(context.Background(), GenerateSlotsInput{
		StartDate:       "2026-09-01",
		EndDate:         "2026-09-03",
		StartTime:       "09:00",
		EndTime:         "10:00",
		IntervalMinutes: 30,
	})
	require.NoError(t, err)

	all, err := svc.GetSchedules(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 6)

	dayTwo, err := svc.GetSchedules(context.Background(),
		time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 2, 23, 59, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, dayTwo, 2)
	assert.True(t, dayTwo[0].StartDateTime.Before(dayTwo[1].StartDateTime))
}
