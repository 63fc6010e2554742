package domain

import (
	"time"

	"github.com/google/uuid"
)

// CulturalPreference accumulates one (type, value) pair per user with
// the confidence score from the first extraction that produced it.
// Repeats never overwrite the stored confidence.
type CulturalPreference struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_pref_user_type_value" json:"user_id"`
	PreferenceType  string     `gorm:"column:preference_type;not null;uniqueIndex:uq_pref_user_type_value" json:"preference_type"`
	PreferenceValue string     `gorm:"column:preference_value;not null;uniqueIndex:uq_pref_user_type_value" json:"preference_value"`
	ConfidenceScore float64    `gorm:"column:confidence_score;not null;default:0" json:"confidence_score"`
	MessageID       *uuid.UUID `gorm:"type:uuid;index" json:"message_id,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
}

func (CulturalPreference) TableName() string { return "cultural_preference" }
