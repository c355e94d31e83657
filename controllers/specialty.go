package controllers

import (
	"github.com/clinicore/clinic-backend/db"
	"github.com/clinicore/clinic-backend/models"
	"github.com/clinicore/clinic-backend/utils"
	"github.com/gofiber/fiber/v2"
)

// GetAllSpecialties returns all specialties
func GetAllSpecialties(c *fiber.Ctx) error {
	var specialties []models.Specialty
	if err := db.DB.Find(&specialties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch specialties",
			Error:   err.Error(),
		})
	}
	return c.JSON(specialties)
}

// GetSpecialty returns a specialty by ID
func GetSpecialty(c *fiber.Ctx) error {
	id := c.Params("id")
	var specialty models.Specialty
	if err := db.DB.First(&specialty, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Specialty not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(specialty)
}

// CreateSpecialty creates a new specialty (admin only)
func CreateSpecialty(c *fiber.Ctx) error {
	var specialty models.Specialty
	if err := c.BodyParser(&specialty); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if specialty.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Title is required",
		})
	}
	if err := db.DB.Create(&specialty).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Failed to create specialty",
			Error:   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(specialty)
}

// UpdateSpecialty updates a specialty by ID (admin only)
func UpdateSpecialty(c *fiber.Ctx) error {
	id := c.Params("id")
	var specialty models.Specialty
	if err := c.BodyParser(&specialty); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Model(&specialty).Where("id = ?", id).Updates(specialty).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update specialty",
			Error:   err.Error(),
		})
	}
	return c.JSON(specialty)
}

// DeleteSpecialty deletes a specialty by ID (admin only)
func DeleteSpecialty(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := db.DB.Where("id = ?", id).Delete(&models.Specialty{}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete specialty",
			Error:   err.Error(),
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
