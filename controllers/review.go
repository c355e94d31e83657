package controllers

import (
	"strconv"

	"github.com/clinicore/clinic-backend/db"
	"github.com/clinicore/clinic-backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateReview adds a new review for a doctor
func CreateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var patient models.Patient
	if err := db.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Patient profile not found",
		})
	}

	// Parse the review data
	review := new(models.Review)
	if err := c.BodyParser(review); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid review data",
		})
	}

	review.PatientID = patient.ID

	// Check if the doctor exists
	var doctor models.Doctor
	if err := db.DB.Where("id = ? AND is_deleted = ?", review.DoctorID, false).First(&doctor).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Doctor not found",
		})
	}

	// Check if the patient has already reviewed this doctor
	hasExisting, err := review.HasExistingReview(db.DB)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to check existing reviews",
		})
	}
	if hasExisting {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "You have already reviewed this doctor. Please update your existing review.",
		})
	}

	// If appointmentID is provided, verify it exists and belongs to the patient
	if review.AppointmentID != nil && *review.AppointmentID > 0 {
		var appointment models.Appointment
		if err := db.DB.Where("id = ? AND patient_id = ? AND doctor_id = ? AND status = ?",
			*review.AppointmentID, patient.ID, review.DoctorID, models.StatusCompleted).
			First(&appointment).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Completed appointment not found for this review",
			})
		}

		// Mark as verified since it's linked to a real appointment
		review.IsVerified = true
	}

	if err := db.DB.Create(review).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create review",
		})
	}

	refreshDoctorRating(review.DoctorID)

	return c.Status(fiber.StatusCreated).JSON(review)
}

// GetDoctorReviews retrieves all reviews for a specific doctor
func GetDoctorReviews(c *fiber.Ctx) error {
	doctorID := c.Params("id")

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	offset := (page - 1) * limit

	var reviews []models.Review
	if err := db.DB.Preload("Patient", func(db *gorm.DB) *gorm.DB {
		// Only select non-sensitive fields
		return db.Select("id, name, created_at")
	}).
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch reviews",
		})
	}

	var count int64
	db.DB.Model(&models.Review{}).Where("doctor_id = ?", doctorID).Count(&count)

	// Handle anonymous reviews - hide patient information
	for i := range reviews {
		if reviews[i].IsAnonymous {
			reviews[i].Patient.Name = "Anonymous User"
		}
	}

	return c.JSON(fiber.Map{
		"reviews": reviews,
		"total":   count,
		"page":    page,
		"limit":   limit,
		"pages":   (int(count) + limit - 1) / limit,
	})
}

// DeleteReview removes the calling patient's review
func DeleteReview(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id := c.Params("id")

	var patient models.Patient
	if err := db.DB.Where("user_id = ?", userID).First(&patient).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Patient profile not found",
		})
	}

	var review models.Review
	if err := db.DB.Where("id = ? AND patient_id = ?", id, patient.ID).First(&review).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Review not found",
		})
	}

	if err := db.DB.Delete(&review).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete review",
		})
	}

	refreshDoctorRating(review.DoctorID)

	return c.SendStatus(fiber.StatusNoContent)
}

// refreshDoctorRating recomputes the doctor's average rating after a change
func refreshDoctorRating(doctorID uint) {
	var avg float64
	db.DB.Model(&models.Review{}).
		Where("doctor_id = ? AND deleted_at IS NULL", doctorID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg)
	db.DB.Model(&models.Doctor{}).Where("id = ?", doctorID).Update("average_rating", avg)
}
