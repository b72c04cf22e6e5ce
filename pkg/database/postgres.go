package database

import (
	"log"

	"eventhub/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Translate driver unique-violation errors into gorm.ErrDuplicatedKey
		// so the services can match them with errors.Is.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	// AutoMigrate also creates the unique indexes on users and the
	// (user_id, event_id) registration index that guards duplicates.
	if err := db.AutoMigrate(&models.User{}, &models.Event{}, &models.Attendee{}); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	return db
}
