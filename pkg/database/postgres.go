package database

import (
	"log"

	"github.com/parkspot/parking-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.ParkingStructure{},
		&models.Floor{},
		&models.Slot{},
		&models.Booking{},
		&models.User{},
	); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	// Partial unique index: at most one active booking may hold a slot
	db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_booking_active_slot
		ON bookings (slot_id)
		WHERE status = 'active'
	`)

	return db
}
