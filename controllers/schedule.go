package controllers

import (
	"time"

	"github.com/clinicore/clinic-backend/db"
	"github.com/clinicore/clinic-backend/models"
	"github.com/clinicore/clinic-backend/services"
	"github.com/clinicore/clinic-backend/utils"
	"github.com/gofiber/fiber/v2"
)

// ScheduleController exposes slot generation and the doctor's slot ledger.
type ScheduleController struct {
	schedules       *services.ScheduleService
	doctorSchedules *services.DoctorScheduleService
}

func NewScheduleController(schedules *services.ScheduleService, doctorSchedules *services.DoctorScheduleService) *ScheduleController {
	return &ScheduleController{schedules: schedules, doctorSchedules: doctorSchedules}
}

// CreateSchedules generates bookable slots for a date range (admin only)
func (ctl *ScheduleController) CreateSchedules(c *fiber.Ctx) error {
	var input services.GenerateSlotsInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	created, err := ctl.schedules.GenerateSlots(c.Context(), input)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to generate schedules",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"created": created,
		"count":   len(created),
	})
}

// GetSchedules lists slots, optionally bounded by from/to query params
func (ctl *ScheduleController) GetSchedules(c *fiber.Ctx) error {
	var from, to time.Time
	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid 'from' timestamp",
				Error:   err.Error(),
			})
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
				Message: "Invalid 'to' timestamp",
				Error:   err.Error(),
			})
		}
		to = parsed
	}

	schedules, err := ctl.schedules.GetSchedules(c.Context(), from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch schedules",
			Error:   err.Error(),
		})
	}
	return c.JSON(schedules)
}

// CreateMySchedules opts the calling doctor into slots
func (ctl *ScheduleController) CreateMySchedules(c *fiber.Ctx) error {
	type Input struct {
		ScheduleIDs []uint `json:"schedule_ids"`
	}

	doctor, ok := doctorForUser(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor profile not found",
		})
	}

	var input Input
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if len(input.ScheduleIDs) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "schedule_ids is required",
		})
	}

	assignments, err := ctl.doctorSchedules.CreateForDoctor(c.Context(), doctor.ID, input.ScheduleIDs)
	if err != nil {
		return c.Status(serviceErrorStatus(err)).JSON(utils.ErrorResponse{
			Message: "Failed to create doctor schedules",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(assignments)
}

// GetMySchedules lists everything the calling doctor offers
func (ctl *ScheduleController) GetMySchedules(c *fiber.Ctx) error {
	doctor, ok := doctorForUser(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor profile not found",
		})
	}

	assignments, err := ctl.doctorSchedules.GetForDoctor(c.Context(), doctor.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctor schedules",
			Error:   err.Error(),
		})
	}
	return c.JSON(assignments)
}

// GetDoctorAvailability lists a doctor's unbooked future slots for patients
func (ctl *ScheduleController) GetDoctorAvailability(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
			Error:   err.Error(),
		})
	}

	assignments, err := ctl.doctorSchedules.GetAvailableForDoctor(c.Context(), uint(doctorID), time.Now())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch availability",
			Error:   err.Error(),
		})
	}
	return c.JSON(assignments)
}

// DeleteMySchedule withdraws one offered (and unbooked) slot
func (ctl *ScheduleController) DeleteMySchedule(c *fiber.Ctx) error {
	doctor, ok := doctorForUser(c)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor profile not found",
		})
	}

	scheduleID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid schedule ID",
			Error:   err.Error(),
		})
	}

	if err := ctl.doctorSchedules.DeleteForDoctor(c.Context(), doctor.ID, uint(scheduleID)); err != nil {
		return c.Status(serviceErrorStatus(err)).JSON(utils.ErrorResponse{
			Message: "Failed to delete doctor schedule",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// doctorForUser resolves the doctor profile behind the authenticated user.
func doctorForUser(c *fiber.Ctx) (*models.Doctor, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return nil, false
	}
	var doctor models.Doctor
	if err := db.DB.Where("user_id = ? AND is_deleted = ?", userID, false).First(&doctor).Error; err != nil {
		return nil, false
	}
	return &doctor, true
}
