package database

import (
	"log"

	"github.com/sws-safaris/booking-api/internal/config"
	"github.com/sws-safaris/booking-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.User{},
		&models.APIKey{},
		&models.RoomUnit{},
		&models.Allocation{},
		&models.LineItem{},
		&models.Reservation{},
		&models.BookingInquiry{},
		&models.MaintenanceLog{},
		&models.Quotation{},
		&models.QuotationItem{},
		&models.Instructor{},
		&models.InstructorActivityLevel{},
		&models.InstructorRate{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
