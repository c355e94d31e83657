package db

import (
	"fmt"
	"log"

	"github.com/clinicore/clinic-backend/models"
)

// Migrate runs AutoMigrate for every model. Init must have been called.
func Migrate() {
	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
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
		log.Fatal("Failed to run migrations: ", err)
	}

	fmt.Println("✅ Migrations applied successfully!")
}

// SeedRoles creates the three fixed roles if they don't exist.
func SeedRoles() {
	roles := []models.Role{
		{Name: models.RoleAdmin, Description: "Administrator with full access"},
		{Name: models.RoleDoctor, Description: "Doctor who offers appointment slots"},
		{Name: models.RolePatient, Description: "Patient who books appointments"},
	}

	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}
}
