package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/clinicore/clinic-backend/gateway"
	"github.com/clinicore/clinic-backend/models"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Specialty{},
		&models.Doctor{},
		&models.Patient{},
		&models.Schedule{},
		&models.DoctorSchedule{},
		&models.Appointment{},
		&models.Payment{},
		&models.Review{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func seedDoctor(t *testing.T, db *gorm.DB, fee float64) *models.Doctor {
	t.Helper()

	user := models.User{Name: "Dr. Gregory", Email: fmt.Sprintf("doctor-%s@example.com", t.Name())}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed doctor user: %v", err)
	}
	doctor := models.Doctor{
		UserID:         user.ID,
		Name:           "Gregory",
		Email:          user.Email,
		AppointmentFee: fee,
	}
	if err := db.Create(&doctor).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	return &doctor
}

func seedPatient(t *testing.T, db *gorm.DB) *models.Patient {
	t.Helper()

	user := models.User{Name: "Pat", Email: fmt.Sprintf("patient-%s@example.com", t.Name())}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed patient user: %v", err)
	}
	patient := models.Patient{
		UserID: user.ID,
		Name:   "Pat",
		Email:  user.Email,
	}
	if err := db.Create(&patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return &patient
}

func seedSlot(t *testing.T, db *gorm.DB, doctorID uint, start time.Time) *models.Schedule {
	t.Helper()

	schedule := models.Schedule{
		StartDateTime: start,
		EndDateTime:   start.Add(30 * time.Minute),
	}
	if err := db.Create(&schedule).Error; err != nil {
		t.Fatalf("seed schedule: %v", err)
	}
	assignment := models.DoctorSchedule{DoctorID: doctorID, ScheduleID: schedule.ID}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("seed doctor schedule: %v", err)
	}
	return &schedule
}

// fakeGateway records checkout calls and optionally fails them.
type fakeGateway struct {
	calls   int
	failErr error
	lastURL string
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, params gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	f.calls++
	if f.failErr != nil {
		return nil, f.failErr
	}
	f.lastURL = fmt.Sprintf("https://checkout.test/session/%d-%d", params.AppointmentID, params.PaymentID)
	return &gateway.CheckoutSession{ID: fmt.Sprintf("cs_test_%d", params.PaymentID), URL: f.lastURL}, nil
}

func newAppointmentService(db *gorm.DB, gw CheckoutGateway) *AppointmentService {
	return NewAppointmentService(db, gw, "usd", zap.NewNop())
}
