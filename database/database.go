package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"fluxwell/config"
	"fluxwell/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init initializes the database connection using the DSN from the application config.
// "memory" or an empty DSN opens a shared in-memory SQLite database, a postgres://
// or postgresql:// DSN opens PostgreSQL, anything else is treated as a SQLite file path.
func Init() (*gorm.DB, error) {
	db, err := Open(config.AppConfig.Database.DSN)
	if err != nil {
		return nil, err
	}
	DB = db
	return DB, nil
}

// Open connects to the database identified by dsn.
func Open(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             logger.DefaultSlowThreshold,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{
		Logger: gormLogger,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch {
	case dsn == "memory" || dsn == "":
		log.Println("INFO: [Database] Initializing in-memory SQLite database (DSN: 'memory' or empty).")
		db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormConfig)
	case strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://"):
		log.Println("INFO: [Database] Initializing PostgreSQL database.")
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	default:
		log.Printf("INFO: [Database] Initializing file-based SQLite database at DSN: '%s'.", dsn)
		dbDir := filepath.Dir(dsn)
		if dbDir != "." && dbDir != "/" {
			if _, statErr := os.Stat(dbDir); os.IsNotExist(statErr) {
				log.Printf("INFO: [Database] Database directory '%s' does not exist, attempting to create.", dbDir)
				if mkdirErr := os.MkdirAll(dbDir, 0755); mkdirErr != nil {
					log.Printf("ERROR: [Database] Failed to create database directory '%s': %v", dbDir, mkdirErr)
					return nil, fmt.Errorf("failed to create database directory '%s': %w", dbDir, mkdirErr)
				}
			}
		}
		db, err = gorm.Open(sqlite.Open(dsn), gormConfig)
	}
	if err != nil {
		log.Printf("ERROR: [Database] Failed to connect to database: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("INFO: [Database] Database connection established successfully.")
	return db, nil
}

// Migrate creates or updates the plan tables.
func Migrate(db *gorm.DB) error {
	log.Println("INFO: [Database] Running database migrations...")
	if err := db.AutoMigrate(
		&models.PlanSettings{},
		&models.PlanEntry{},
		&models.GenerationQuota{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}
	log.Println("INFO: [Database] Database migration completed.")
	return nil
}
