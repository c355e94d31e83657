package controllers

import (
	"errors"
	"fmt"
	"log"

	"github.com/clinicore/clinic-backend/db"
	"github.com/clinicore/clinic-backend/models"
	"github.com/clinicore/clinic-backend/services"
	"github.com/clinicore/clinic-backend/utils"
	"github.com/gofiber/fiber/v2"
)

// AppointmentController exposes the booking flow and appointment views.
type AppointmentController struct {
	appointments *services.AppointmentService
}

func NewAppointmentController(appointments *services.AppointmentService) *AppointmentController {
	return &AppointmentController{appointments: appointments}
}

type bookAppointmentInput struct {
	DoctorID   uint `json:"doctor_id"`
	ScheduleID uint `json:"schedule_id"`
}

// BookAppointment reserves a slot and opens a payment checkout
func (ctl *AppointmentController) BookAppointment(c *fiber.Ctx) error {
	return ctl.book(c, true)
}

// BookAppointmentPayLater reserves a slot without opening a checkout
func (ctl *AppointmentController) BookAppointmentPayLater(c *fiber.Ctx) error {
	return ctl.book(c, false)
}

func (ctl *AppointmentController) book(c *fiber.Ctx, withCheckout bool) error {
	patient, ok := patientForUser(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Patient profile not found",
		})
	}

	var input bookAppointmentInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	var result *services.BookingResult
	var err error
	if withCheckout {
		result, err = ctl.appointments.Reserve(c.Context(), input.DoctorID, input.ScheduleID, patient.ID)
	} else {
		result, err = ctl.appointments.ReserveWithoutPayment(c.Context(), input.DoctorID, input.ScheduleID, patient.ID)
	}
	if err != nil {
		return c.Status(serviceErrorStatus(err)).JSON(utils.ErrorResponse{
			Message: bookingFailureMessage(err),
			Error:   err.Error(),
		})
	}

	ctl.sendBookingConfirmation(result)

	return c.Status(fiber.StatusCreated).JSON(result)
}

// InitiatePayment opens a fresh checkout for an unpaid appointment
func (ctl *AppointmentController) InitiatePayment(c *fiber.Ctx) error {
	patient, ok := patientForUser(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Patient profile not found",
		})
	}

	appointmentID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
			Error:   err.Error(),
		})
	}

	checkoutURL, err := ctl.appointments.InitiatePayment(c.Context(), uint(appointmentID), patient.ID)
	if err != nil {
		return c.Status(serviceErrorStatus(err)).JSON(utils.ErrorResponse{
			Message: "Failed to initiate payment",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"checkout_url": checkoutURL})
}

// GetMyAppointments returns the caller's appointments, for patients and
// doctors alike
func (ctl *AppointmentController) GetMyAppointments(c *fiber.Ctx) error {
	if patient, ok := patientForUser(c); ok {
		appointments, err := ctl.appointments.GetMyAppointments(c.Context(), patient.ID, 0)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch appointments",
				Error:   err.Error(),
			})
		}
		return c.JSON(appointments)
	}

	if doctor, ok := doctorForUser(c); ok {
		appointments, err := ctl.appointments.GetMyAppointments(c.Context(), 0, doctor.ID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
				Message: "Failed to fetch appointments",
				Error:   err.Error(),
			})
		}
		return c.JSON(appointments)
	}

	return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
		Message: "No patient or doctor profile for this user",
	})
}

// GetAppointment returns one appointment owned by the caller
func (ctl *AppointmentController) GetAppointment(c *fiber.Ctx) error {
	id := c.Params("id")

	var appointment models.Appointment
	query := db.DB.Preload("Doctor").Preload("Patient").Preload("Schedule").Preload("Payment")

	if patient, ok := patientForUser(c); ok {
		query = query.Where("id = ? AND patient_id = ?", id, patient.ID)
	} else if doctor, ok := doctorForUser(c); ok {
		query = query.Where("id = ? AND doctor_id = ?", id, doctor.ID)
	} else {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "No patient or doctor profile for this user",
		})
	}

	if err := query.First(&appointment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointment)
}

// GetAllAppointments returns every appointment (admin only)
func (ctl *AppointmentController) GetAllAppointments(c *fiber.Ctx) error {
	var appointments []models.Appointment
	if err := db.DB.Preload("Doctor").Preload("Patient").Preload("Schedule").Preload("Payment").
		Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// ChangeAppointmentStatus lets the treating doctor complete or cancel
func (ctl *AppointmentController) ChangeAppointmentStatus(c *fiber.Ctx) error {
	type Input struct {
		Status models.AppointmentStatus `json:"status"`
	}

	doctor, ok := doctorForUser(c)
	if !ok {
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "Only the treating doctor can change appointment status",
		})
	}

	id := c.Params("id")
	var appointment models.Appointment
	if err := db.DB.Where("id = ? AND doctor_id = ?", id, doctor.ID).First(&appointment).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}

	var input Input
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if err := appointment.UpdateStatus(db.DB, input.Status); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid status transition",
			Error:   err.Error(),
		})
	}

	return c.JSON(appointment)
}

// sendBookingConfirmation emails the patient; failures only log.
func (ctl *AppointmentController) sendBookingConfirmation(result *services.BookingResult) {
	var patient models.Patient
	if err := db.DB.First(&patient, result.Appointment.PatientID).Error; err != nil {
		log.Printf("Failed to load patient for confirmation email: %v", err)
		return
	}
	var doctor models.Doctor
	if err := db.DB.First(&doctor, result.Appointment.DoctorID).Error; err != nil {
		log.Printf("Failed to load doctor for confirmation email: %v", err)
		return
	}
	var schedule models.Schedule
	if err := db.DB.First(&schedule, result.Appointment.ScheduleID).Error; err != nil {
		log.Printf("Failed to load schedule for confirmation email: %v", err)
		return
	}

	emailBody := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment has been successfully booked.</p>
		<p><strong>Details:</strong></p>
		<ul>
			<li><strong>Doctor:</strong> %s</li>
			<li><strong>Start Time:</strong> %s</li>
			<li><strong>End Time:</strong> %s</li>
			<li><strong>Fee:</strong> %.2f</li>
		</ul>
		<p>Please complete the payment within 30 minutes to keep your slot.</p>
		<p>Best regards,</p>
		<p>Your Clinic Team</p>
	`, patient.Name, doctor.Name,
		schedule.StartDateTime.Format("2006-01-02 15:04:05"),
		schedule.EndDateTime.Format("2006-01-02 15:04:05"),
		result.Payment.Amount)

	if err := utils.SendEmail(patient.Email, "Appointment Confirmation", emailBody); err != nil {
		log.Printf("Failed to send confirmation email: %v", err)
	}
}

// patientForUser resolves the patient profile behind the authenticated user.
func patientForUser(c *fiber.Ctx) (*models.Patient, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil, false
	}
	var patient models.Patient
	if err := db.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return nil, false
	}
	return &patient, true
}

// serviceErrorStatus maps service errors onto HTTP statuses.
func serviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrDoctorNotFound),
		errors.Is(err, services.ErrPatientNotFound),
		errors.Is(err, services.ErrScheduleNotFound),
		errors.Is(err, services.ErrSlotNotOffered),
		errors.Is(err, services.ErrAppointmentNotFound),
		errors.Is(err, services.ErrPaymentNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrSlotAlreadyBooked):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrAlreadyPaid),
		errors.Is(err, services.ErrAppointmentCanceled):
		return fiber.StatusBadRequest
	}

	var upstream *services.UpstreamError
	if errors.As(err, &upstream) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

func bookingFailureMessage(err error) string {
	if errors.Is(err, services.ErrSlotAlreadyBooked) {
		return "Slot no longer available"
	}
	var upstream *services.UpstreamError
	if errors.As(err, &upstream) {
		return "Payment gateway is unavailable, please try again"
	}
	return "Failed to book appointment"
}
