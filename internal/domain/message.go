package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"
)

// Message is immutable once written. Assistant messages carry the
// cultural signal extracted from the turn as their stored context.
type Message struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"conversation_id"`
	Role            string         `gorm:"column:role;not null" json:"role"`
	Content         string         `gorm:"column:content;not null" json:"content"`
	CulturalContext datatypes.JSON `gorm:"type:jsonb;column:cultural_context" json:"cultural_context,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Message) TableName() string { return "message" }
