package repository

import (
	"errors"
	"fmt"
	"log"

	"fluxwell/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuotaRepository defines the interface for interacting with AI generation quota data.
type QuotaRepository interface {
	IncrementQuota(userID, day string) (*models.GenerationQuota, error)
}

type quotaRepository struct {
	db *gorm.DB
}

// NewQuotaRepository creates a new instance of QuotaRepository.
func NewQuotaRepository(db *gorm.DB) QuotaRepository {
	return &quotaRepository{db: db}
}

// IncrementQuota adds one generation to the user's count for the UTC day (YYYY-MM-DD),
// creating the row if needed, and returns the count including this increment.
func (r *quotaRepository) IncrementQuota(userID, day string) (*models.GenerationQuota, error) {
	if userID == "" || day == "" {
		log.Printf("ERROR: [QuotaRepository] IncrementQuota: userID and day cannot be empty.")
		return nil, errors.New("user ID and day cannot be empty")
	}

	quotaToUpsert := models.GenerationQuota{
		UserID:   userID,
		Day:      day,
		Requests: 1,
	}
	var currentQuota models.GenerationQuota
	// The UPSERT locks the row until commit, so the count read back is this caller's.
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"requests": gorm.Expr("requests + 1")}),
		}).Create(&quotaToUpsert).Error
		if err != nil {
			return fmt.Errorf("upsert: %w", err)
		}
		// The upserted struct is not refreshed on conflict.
		if err := tx.First(&currentQuota, "user_id = ? AND day = ?", userID, day).Error; err != nil {
			return fmt.Errorf("fetch after increment: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: [QuotaRepository] Failed to increment quota for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to increment quota for userID %s: %w", userID, err)
	}

	log.Printf("INFO: [QuotaRepository] Generation quota for userID %s on %s is now %d.", userID, day, currentQuota.Requests)
	return &currentQuota, nil
}
