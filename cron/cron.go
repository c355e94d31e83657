package cron

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/clinicore/clinic-backend/db"
	"github.com/clinicore/clinic-backend/models"
	"github.com/clinicore/clinic-backend/services"
	"github.com/clinicore/clinic-backend/utils"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	defaultReaperSpec   = "*/10 * * * *"
	defaultGraceMinutes = 30
)

// StartCronJobs wires the recurring jobs: the unpaid-reservation reaper and
// hourly appointment reminders. The sweep cadence and the grace window are
// configured independently; deployments should keep them consistent so an
// unpaid slot is not held much longer than the grace period.
func StartCronJobs(appointmentSvc *services.AppointmentService, logger *zap.Logger) {
	c := cron.New()

	reaperSpec := os.Getenv("REAPER_CRON_SPEC")
	if reaperSpec == "" {
		reaperSpec = defaultReaperSpec
	}

	grace := time.Duration(defaultGraceMinutes) * time.Minute
	if raw := os.Getenv("RESERVATION_GRACE_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil && minutes > 0 {
			grace = time.Duration(minutes) * time.Minute
		}
	}

	_, err := c.AddFunc(reaperSpec, func() {
		// A failed sweep only logs; the next scheduled run still fires.
		count, err := appointmentSvc.CancelUnpaidAppointments(context.Background(), time.Now(), grace)
		if err != nil {
			logger.Error("unpaid appointment sweep failed", zap.Error(err))
			return
		}
		if count > 0 {
			logger.Info("unpaid appointment sweep finished", zap.Int("canceled", count))
		}
	})
	if err != nil {
		log.Fatalf("Failed to add reaper cron job: %v", err)
	}

	// Run every minute to check for appointments in the next hour
	_, err = c.AddFunc("* * * * *", sendAppointmentReminders)
	if err != nil {
		log.Fatalf("Failed to add reminder cron job: %v", err)
	}

	c.Start()
	log.Println("Cron job scheduler started")
}

// sendAppointmentReminders checks for appointments and sends reminders
func sendAppointmentReminders() {
	var appointments []models.Appointment
	now := time.Now()
	// Look for appointments starting in the next hour
	startWindow := now.Add(55 * time.Minute)
	endWindow := now.Add(65 * time.Minute)

	err := db.DB.Preload("Patient").Preload("Doctor").Preload("Schedule").
		Joins("JOIN schedules ON schedules.id = appointments.schedule_id").
		Where("appointments.status = ? AND schedules.start_date_time BETWEEN ? AND ?",
			models.StatusScheduled, startWindow, endWindow).
		Find(&appointments).Error
	if err != nil {
		log.Printf("Error fetching appointments for reminders: %v", err)
		return
	}

	for _, appointment := range appointments {
		if err := sendReminderEmail(&appointment); err != nil {
			log.Printf("Failed to send reminder for appointment %d: %v", appointment.ID, err)
			continue
		}
		log.Printf("Sent reminder for appointment %d to %s", appointment.ID, appointment.Patient.Email)
	}
}

// sendReminderEmail constructs and sends the reminder email
func sendReminderEmail(appointment *models.Appointment) error {
	subject := fmt.Sprintf("Reminder: Upcoming Appointment with Dr. %s", appointment.Doctor.Name)
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment scheduled in one hour.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
			<li><strong>Status:</strong> %s</li>
		</ul>
		<p>Please join on time. If you need to reschedule or cancel, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>Your Clinic Team</p>
	`, appointment.Patient.Name, appointment.Doctor.Name,
		appointment.Schedule.StartDateTime.Format("2006-01-02 15:04:05"),
		appointment.Schedule.EndDateTime.Format("2006-01-02 15:04:05"),
		appointment.Status)

	return utils.SendEmail(appointment.Patient.Email, subject, body)
}
