package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clinicore/clinic-backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultSlotInterval = 30 // minutes

// ScheduleService expands admin-supplied date ranges into bookable slots.
type ScheduleService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewScheduleService(db *gorm.DB, log *zap.Logger) *ScheduleService {
	return &ScheduleService{db: db, log: log}
}

// GenerateSlotsInput describes one generation request: a date range, a daily
// clock window and a fixed interval in minutes.
type GenerateSlotsInput struct {
	StartDate       string `json:"start_date"` // "2006-01-02"
	EndDate         string `json:"end_date"`
	StartTime       string `json:"start_time"` // "15:04"
	EndTime         string `json:"end_time"`
	IntervalMinutes int    `json:"interval_minutes"`
}

// GenerateSlots walks every day in the range, stepping through the daily
// window in interval-sized steps, and creates the slots that do not exist
// yet. Re-running over the same range creates nothing, so generation is safe
// to repeat. Only the newly created slots are returned.
func (s *ScheduleService) GenerateSlots(ctx context.Context, in GenerateSlotsInput) ([]models.Schedule, error) {
	startDate, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", in.StartDate, err)
	}
	endDate, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", in.EndDate, err)
	}
	if endDate.Before(startDate) {
		return nil, fmt.Errorf("end date %s is before start date %s", in.EndDate, in.StartDate)
	}

	windowStart, err := time.Parse("15:04", in.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start time %q: %w", in.StartTime, err)
	}
	windowEnd, err := time.Parse("15:04", in.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid end time %q: %w", in.EndTime, err)
	}

	interval := time.Duration(in.IntervalMinutes) * time.Minute
	if in.IntervalMinutes <= 0 {
		interval = DefaultSlotInterval * time.Minute
	}

	var created []models.Schedule

	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		dayWindowStart := time.Date(day.Year(), day.Month(), day.Day(),
			windowStart.Hour(), windowStart.Minute(), 0, 0, time.UTC)
		dayWindowEnd := time.Date(day.Year(), day.Month(), day.Day(),
			windowEnd.Hour(), windowEnd.Minute(), 0, 0, time.UTC)

		// Trailing partial slots are dropped: the candidate must end inside
		// the window.
		for cursor := dayWindowStart; !cursor.Add(interval).After(dayWindowEnd); cursor = cursor.Add(interval) {
			slot, err := s.createIfAbsent(ctx, cursor, cursor.Add(interval))
			if err != nil {
				return nil, err
			}
			if slot != nil {
				created = append(created, *slot)
			}
		}
	}

	s.log.Info("slot generation finished",
		zap.String("start_date", in.StartDate),
		zap.String("end_date", in.EndDate),
		zap.Int("created", len(created)))

	return created, nil
}

// createIfAbsent returns nil without error when an identical slot already
// exists.
func (s *ScheduleService) createIfAbsent(ctx context.Context, start, end time.Time) (*models.Schedule, error) {
	var existing models.Schedule
	err := s.db.WithContext(ctx).
		Where("start_date_time = ? AND end_date_time = ?", start, end).
		First(&existing).Error
	if err == nil {
		return nil, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	slot := models.Schedule{
		StartDateTime: start,
		EndDateTime:   end,
	}
	if err := s.db.WithContext(ctx).Create(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// GetSchedules returns slots inside the given window in chronological order.
// Zero bounds are open-ended.
func (s *ScheduleService) GetSchedules(ctx context.Context, from, to time.Time) ([]models.Schedule, error) {
	var schedules []models.Schedule
	query := s.db.WithContext(ctx).Order("start_date_time asc")
	if !from.IsZero() {
		query = query.Where("start_date_time >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("end_date_time <= ?", to)
	}
	if err := query.Find(&schedules).Error; err != nil {
		return nil, err
	}
	return schedules, nil
}
