package repository

import (
	"errors"
	"fmt"
	"log"

	"fluxwell/models"

	"gorm.io/gorm"
)

// PlanRepository defines the interface for interacting with plan settings and committed plan days.
type PlanRepository interface {
	GetSettings(userID string) (*models.PlanSettings, error)
	SaveSettings(settings *models.PlanSettings) error
	ListEntriesByDates(userID string, dates []string) ([]*models.PlanEntry, error)
	ReplaceEntries(userID string, dates []string, entries []*models.PlanEntry) error
	CountEntries(userID string) (int64, error)
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new instance of PlanRepository.
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// GetSettings retrieves the settings row for a user. It returns (nil, nil) when the
// user has not completed onboarding.
func (r *planRepository) GetSettings(userID string) (*models.PlanSettings, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	var settings models.PlanSettings
	err := r.db.First(&settings, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [PlanRepository] No plan settings found for userID %s.", userID)
			return nil, nil // Not found
		}
		log.Printf("ERROR: [PlanRepository] Failed to retrieve plan settings for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve plan settings for userID %s: %w", userID, err)
	}
	return &settings, nil
}

// SaveSettings inserts or updates the settings row.
func (r *planRepository) SaveSettings(settings *models.PlanSettings) error {
	if settings == nil {
		log.Printf("ERROR: [PlanRepository] SaveSettings: settings cannot be nil")
		return errors.New("settings cannot be nil")
	}
	if settings.UserID == "" {
		return errors.New("user ID cannot be empty")
	}
	if err := r.db.Save(settings).Error; err != nil {
		log.Printf("ERROR: [PlanRepository] Failed to save plan settings for userID %s: %v", settings.UserID, err)
		return fmt.Errorf("failed to save plan settings for userID %s: %w", settings.UserID, err)
	}
	log.Printf("INFO: [PlanRepository] Saved plan settings for userID %s (ai_enabled=%t, anchor=%d).", settings.UserID, settings.AIEnabled, settings.AnchorWeekday)
	return nil
}

// ListEntriesByDates retrieves the committed days of a user among the given dates, ordered by date.
func (r *planRepository) ListEntriesByDates(userID string, dates []string) ([]*models.PlanEntry, error) {
	var entries []*models.PlanEntry
	if len(dates) == 0 {
		return entries, nil
	}
	err := r.db.Where("user_id = ? AND date IN ?", userID, dates).Order("date asc, id asc").Find(&entries).Error
	if err != nil {
		log.Printf("ERROR: [PlanRepository] Failed to retrieve plan entries for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve plan entries for userID %s: %w", userID, err)
	}
	return entries, nil
}

// ReplaceEntries deletes every entry of the user on the given dates and inserts the
// new entries in a single transaction, so repeating the same write leaves one row per date.
func (r *planRepository) ReplaceEntries(userID string, dates []string, entries []*models.PlanEntry) error {
	if userID == "" {
		return errors.New("user ID cannot be empty")
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if len(dates) > 0 {
			if err := tx.Where("user_id = ? AND date IN ?", userID, dates).Delete(&models.PlanEntry{}).Error; err != nil {
				return fmt.Errorf("failed to delete existing entries: %w", err)
			}
		}
		for _, entry := range entries {
			entry.ID = 0
			entry.UserID = userID
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("failed to insert entries: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: [PlanRepository] Failed to replace plan entries for userID %s: %v", userID, err)
		return fmt.Errorf("failed to replace plan entries for userID %s: %w", userID, err)
	}
	log.Printf("INFO: [PlanRepository] Replaced %d plan entries on %d dates for userID %s.", len(entries), len(dates), userID)
	return nil
}

// CountEntries counts all committed days of a user.
func (r *planRepository) CountEntries(userID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.PlanEntry{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		log.Printf("ERROR: [PlanRepository] Failed to count plan entries for userID %s: %v", userID, err)
		return 0, fmt.Errorf("failed to count plan entries for userID %s: %w", userID, err)
	}
	return count, nil
}
