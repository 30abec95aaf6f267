package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// PlanEntry is one committed calendar day of a user's plan.
type PlanEntry struct {
	ID        uint           `gorm:"primarykey"`
	UserID    string         `gorm:"index:idx_plan_entries_user_date;not null"`
	Date      string         `gorm:"index:idx_plan_entries_user_date;type:varchar(10);not null"` // YYYY-MM-DD
	Weekday   int            `gorm:"not null"`                                                    // 0 = Monday
	Name      string         `gorm:"type:varchar(120)"`
	PlanType  PlanType       `gorm:"type:varchar(20);default:'manual';not null"`
	Exercises datatypes.JSON // []PlanExercise
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the PlanEntry model.
func (PlanEntry) TableName() string {
	return "plan_entries"
}

// DecodeExercises unmarshals the exercises column.
func (e *PlanEntry) DecodeExercises() ([]PlanExercise, error) {
	if len(e.Exercises) == 0 {
		return []PlanExercise{}, nil
	}
	var exercises []PlanExercise
	if err := json.Unmarshal(e.Exercises, &exercises); err != nil {
		return nil, fmt.Errorf("failed to decode exercises for entry %s: %w", e.Date, err)
	}
	if exercises == nil {
		exercises = []PlanExercise{}
	}
	return exercises, nil
}

// EncodeExercises marshals exercises for the exercises column.
func EncodeExercises(exercises []PlanExercise) (datatypes.JSON, error) {
	if exercises == nil {
		exercises = []PlanExercise{}
	}
	raw, err := json.Marshal(exercises)
	if err != nil {
		return nil, fmt.Errorf("failed to encode exercises: %w", err)
	}
	return datatypes.JSON(raw), nil
}

// PlanSettings holds a user's onboarding profile and AI scheduling state.
// A row exists once onboarding has completed.
type PlanSettings struct {
	UserID              string `gorm:"primaryKey"`
	AIEnabled           bool   `gorm:"default:false;not null"`
	AnchorWeekday       int    `gorm:"default:0;not null"`
	LastGeneratedAnchor string `gorm:"type:varchar(10)"`
	Goal                string `gorm:"type:text"`
	Level               string `gorm:"type:varchar(50)"`
	DaysPerWeek         int
	Equipment           string    // Comma-separated
	CreatedAt           time.Time `gorm:"autoCreateTime"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for the PlanSettings model.
func (PlanSettings) TableName() string {
	return "plan_settings"
}

// EquipmentList splits the stored equipment column.
func (s *PlanSettings) EquipmentList() []string {
	if s.Equipment == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(s.Equipment, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GenerationQuota counts AI plan generations per user per UTC day.
type GenerationQuota struct {
	UserID    string `gorm:"primaryKey"`
	Day       string `gorm:"primaryKey;type:varchar(10)"`
	Requests  int    `gorm:"default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GenerationQuota model.
func (GenerationQuota) TableName() string {
	return "generation_quotas"
}
