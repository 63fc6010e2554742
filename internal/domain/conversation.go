package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Conversation owns an ordered sequence of messages for one user.
// Deletion is soft (IsActive=false) so derived cultural signals stay
// queryable for analytics.
type Conversation struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	CulturalSummary datatypes.JSON `gorm:"type:jsonb;column:cultural_summary" json:"cultural_summary"`
	IsActive        bool           `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversation" }
