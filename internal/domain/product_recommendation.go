package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProductRecommendation is one ranked product from a search run.
type ProductRecommendation struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SearchID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"search_id"`
	ProductID          string         `gorm:"column:product_id;not null;index" json:"product_id"`
	Title              string         `gorm:"column:title;not null" json:"title"`
	URL                string         `gorm:"column:url;not null" json:"url"`
	Image              string         `gorm:"column:image" json:"image,omitempty"`
	Price              float64        `gorm:"column:price" json:"price"`
	RetailPrice        float64        `gorm:"column:retail_price" json:"retail_price,omitempty"`
	Rating             float64        `gorm:"column:rating" json:"rating"`
	ReviewCount        int            `gorm:"column:review_count" json:"review_count"`
	Retailer           string         `gorm:"column:retailer;not null" json:"retailer"`
	CulturalMatchScore float64        `gorm:"column:cultural_match_score;not null;default:0;index" json:"cultural_match_score"`
	AppliedInsights    datatypes.JSON `gorm:"type:jsonb;column:applied_insights" json:"applied_insights"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
}

func (ProductRecommendation) TableName() string { return "product_recommendation" }
