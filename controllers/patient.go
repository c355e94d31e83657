package controllers

import (
	"github.com/clinicore/clinic-backend/db"
	"github.com/clinicore/clinic-backend/models"
	"github.com/clinicore/clinic-backend/utils"
	"github.com/gofiber/fiber/v2"
)

// GetPatientProfile returns the calling patient's profile
func GetPatientProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var patient models.Patient
	if err := db.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Patient profile not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(patient)
}

// UpdatePatientProfile updates the calling patient's profile
func UpdatePatientProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var patient models.Patient
	if err := db.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Patient profile not found",
			Error:   err.Error(),
		})
	}

	var update models.Patient
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	// Identity fields stay as they are
	update.ID = patient.ID
	update.UserID = patient.UserID
	update.Email = patient.Email

	if err := db.DB.Model(&patient).Updates(update).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update patient profile",
			Error:   err.Error(),
		})
	}
	return c.JSON(patient)
}

// GetAllPatients returns every patient (admin only)
func GetAllPatients(c *fiber.Ctx) error {
	var patients []models.Patient
	if err := db.DB.Find(&patients).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch patients",
			Error:   err.Error(),
		})
	}
	return c.JSON(patients)
}

// GetPatient returns a patient by ID (admin only)
func GetPatient(c *fiber.Ctx) error {
	id := c.Params("id")
	var patient models.Patient
	if err := db.DB.First(&patient, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Patient not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(patient)
}
