package db

import (
	"errors"
	"log"
	"os"

	"github.com/recruitdesk/recruitdesk/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.Admin{},
		&models.Student{},
		&models.Department{},
		&models.Application{},
		&models.Round{},
		&models.RoundDepartment{},
		&models.RoundCandidate{},
		&models.DepartmentQuestion{},
		&models.QuestionResponse{},
		&models.ProfileField{},
		&models.SiteSettings{},
		&models.AuditLog{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}

// SeedDefaults creates the settings row and a first super admin so a fresh
// install is usable.
func SeedDefaults() error {
	var settings models.SiteSettings

	err := DB.First(&settings, 1).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.SiteSettings{
			ID:              1,
			Version:         1,
			AllowSignup:     true,
			AllowEmailLogin: true,
		}
		if err := DB.Create(&settings).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	var count int64

	if err := DB.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@recruitdesk.local"
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
		log.Printf("ADMIN_PASSWORD not set, seeding default admin %s with password %q", email, password)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.Admin{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: string(passwordHash),
		Role:         models.RoleSuperAdmin,
	}

	return DB.Create(&admin).Error
}
