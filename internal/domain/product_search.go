package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductSearch records one ranking run: the query, the signal that
// drove it and the taste-graph payloads, kept for analytics.
type ProductSearch struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ConversationID  *uuid.UUID     `gorm:"type:uuid;index" json:"conversation_id,omitempty"`
	Query           string         `gorm:"column:query;not null" json:"query"`
	CulturalContext datatypes.JSON `gorm:"type:jsonb;column:cultural_context" json:"cultural_context"`
	QlooInsights    datatypes.JSON `gorm:"type:jsonb;column:qloo_insights" json:"qloo_insights"`
	CulturalTrends  datatypes.JSON `gorm:"type:jsonb;column:cultural_trends" json:"cultural_trends"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
}

func (ProductSearch) TableName() string { return "product_search" }
