package services

import (
	"context"
	"errors"
	"time"

	"github.com/clinicore/clinic-backend/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DoctorScheduleService manages which slots a doctor offers. Rows created
// here are the ground truth the booking flow reserves against.
type DoctorScheduleService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewDoctorScheduleService(db *gorm.DB, log *zap.Logger) *DoctorScheduleService {
	return &DoctorScheduleService{db: db, log: log}
}

// CreateForDoctor opts the doctor into the given slots. Slots already offered
// are skipped rather than erroring so the call can be repeated with an
// extended list.
func (s *DoctorScheduleService) CreateForDoctor(ctx context.Context, doctorID uint, scheduleIDs []uint) ([]models.DoctorSchedule, error) {
	var doctor models.Doctor
	if err := s.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", doctorID, false).
		First(&doctor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	for _, scheduleID := range scheduleIDs {
		var schedule models.Schedule
		if err := s.db.WithContext(ctx).First(&schedule, scheduleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrScheduleNotFound
			}
			return nil, err
		}

		assignment := models.DoctorSchedule{
			DoctorID:   doctorID,
			ScheduleID: scheduleID,
		}
		err := s.db.WithContext(ctx).
			Where("doctor_id = ? AND schedule_id = ?", doctorID, scheduleID).
			FirstOrCreate(&assignment).Error
		if err != nil {
			return nil, err
		}
	}

	var assignments []models.DoctorSchedule
	if err := s.db.WithContext(ctx).
		Preload("Schedule").
		Where("doctor_id = ? AND schedule_id IN ?", doctorID, scheduleIDs).
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

// GetForDoctor lists everything the doctor offers, booked or not.
func (s *DoctorScheduleService) GetForDoctor(ctx context.Context, doctorID uint) ([]models.DoctorSchedule, error) {
	var assignments []models.DoctorSchedule
	if err := s.db.WithContext(ctx).
		Preload("Schedule").
		Where("doctor_id = ?", doctorID).
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// GetAvailableForDoctor lists unbooked future slots, which is what patients
// browse when picking a time.
func (s *DoctorScheduleService) GetAvailableForDoctor(ctx context.Context, doctorID uint, now time.Time) ([]models.DoctorSchedule, error) {
	var assignments []models.DoctorSchedule
	if err := s.db.WithContext(ctx).
		Preload("Schedule").
		Joins("JOIN schedules ON schedules.id = doctor_schedules.schedule_id").
		Where("doctor_schedules.doctor_id = ? AND doctor_schedules.is_booked = ? AND schedules.start_date_time > ?",
			doctorID, false, now).
		Order("schedules.start_date_time asc").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

// DeleteForDoctor withdraws an offered slot. Booked slots are left alone:
// the appointment holding them has to be canceled first.
func (s *DoctorScheduleService) DeleteForDoctor(ctx context.Context, doctorID, scheduleID uint) error {
	res := s.db.WithContext(ctx).
		Where("doctor_id = ? AND schedule_id = ? AND is_booked = ?", doctorID, scheduleID, false).
		Delete(&models.DoctorSchedule{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotNotOffered
	}
	return nil
}
