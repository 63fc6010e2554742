package domain

import (
	"time"

	"github.com/google/uuid"
)

// SavedProduct is a product the user pinned from a recommendation list.
type SavedProduct struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_saved_user_product_retailer" json:"user_id"`
	ProductID          string    `gorm:"column:product_id;not null;uniqueIndex:uq_saved_user_product_retailer" json:"product_id"`
	Title              string    `gorm:"column:title;not null" json:"title"`
	URL                string    `gorm:"column:url;not null" json:"url"`
	Image              string    `gorm:"column:image" json:"image,omitempty"`
	Price              float64   `gorm:"column:price" json:"price"`
	Retailer           string    `gorm:"column:retailer;not null;uniqueIndex:uq_saved_user_product_retailer" json:"retailer"`
	CulturalMatchScore float64   `gorm:"column:cultural_match_score;not null;default:0" json:"cultural_match_score"`
	CreatedAt          time.Time `gorm:"not null" json:"created_at"`
}

func (SavedProduct) TableName() string { return "saved_product" }
