package controllers

import (
	"fmt"
	"log"

	"github.com/clinicore/clinic-backend/db"
	"github.com/clinicore/clinic-backend/models"
	"github.com/clinicore/clinic-backend/utils"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// GetAllDoctors returns all active doctors, optionally filtered by specialty
func GetAllDoctors(c *fiber.Ctx) error {
	query := db.DB.Preload("Specialty").Where("is_deleted = ?", false)

	if specialtyID := c.Query("specialty_id"); specialtyID != "" {
		query = query.Where("specialty_id = ?", specialtyID)
	}

	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch doctors",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctors)
}

// GetDoctor returns a doctor by ID
func GetDoctor(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.Doctor
	if err := db.DB.Preload("Specialty").Where("is_deleted = ?", false).First(&doctor, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctor)
}

// CreateDoctor provisions a doctor account plus profile (admin only)
func CreateDoctor(c *fiber.Ctx) error {
	type CreateDoctorInput struct {
		models.Doctor
		Password string `json:"password"`
	}

	input := new(CreateDoctorInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if input.Email == "" || input.Password == "" || input.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing required fields",
		})
	}

	var doctorRole models.Role
	if err := db.DB.Where("name = ?", models.RoleDoctor).First(&doctorRole).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Role 'doctor' not found",
			Error:   err.Error(),
		})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to hash password",
			Error:   err.Error(),
		})
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		RoleID:   doctorRole.ID,
	}
	if err := db.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusConflict).JSON(utils.ErrorResponse{
			Message: "Failed to create doctor account",
			Error:   err.Error(),
		})
	}

	doctor := input.Doctor
	doctor.UserID = user.ID
	if err := db.DB.Create(&doctor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to create doctor profile",
			Error:   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(doctor)
}

// UpdateDoctor updates a doctor profile by ID
func UpdateDoctor(c *fiber.Ctx) error {
	id := c.Params("id")
	var doctor models.Doctor
	if err := c.BodyParser(&doctor); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if err := db.DB.Model(&doctor).Where("id = ? AND is_deleted = ?", id, false).Updates(doctor).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to update doctor",
			Error:   err.Error(),
		})
	}
	return c.JSON(doctor)
}

// DeleteDoctor soft deletes a doctor so existing appointment history survives
func DeleteDoctor(c *fiber.Ctx) error {
	id := c.Params("id")
	res := db.DB.Model(&models.Doctor{}).Where("id = ?", id).Update("is_deleted", true)
	if res.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to delete doctor",
			Error:   res.Error.Error(),
		})
	}
	if res.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor not found",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadDoctorPhoto stores a doctor's profile photo on Cloudinary
func UploadDoctorPhoto(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var doctor models.Doctor
	if err := db.DB.Where("user_id = ? AND is_deleted = ?", userID, false).First(&doctor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Doctor profile not found",
			Error:   err.Error(),
		})
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Missing photo file",
			Error:   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to open uploaded file",
			Error:   err.Error(),
		})
	}
	defer file.Close()

	url, err := utils.UploadToCloudinary(file, fmt.Sprintf("doctor_%d", doctor.ID), "doctors")
	if err != nil {
		log.Printf("Cloudinary upload failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to upload photo",
			Error:   err.Error(),
		})
	}

	if err := db.DB.Model(&doctor).Update("profile_photo", url).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to save photo URL",
			Error:   err.Error(),
		})
	}

	return c.JSON(fiber.Map{"profile_photo": url})
}
