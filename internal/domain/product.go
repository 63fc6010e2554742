package domain

// ProductCandidate is the normalized shape of one retailer search
// result. Retailer responses differ in field names; the retail client
// maps them all onto this record.
type ProductCandidate struct {
	ProductID   string         `json:"product_id"`
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	Image       string         `json:"image,omitempty"`
	Price       float64        `json:"price"`
	RetailPrice float64        `json:"retail_price,omitempty"`
	Rating      float64        `json:"rating"`
	ReviewCount int            `json:"review_count"`
	Retailer    string         `json:"retailer"`
	Prime       bool           `json:"prime"`
	Raw         map[string]any `json:"-"`
}

// ScoredProduct is a candidate plus its cultural match score and the
// insights that contributed to it.
type ScoredProduct struct {
	ProductCandidate
	CulturalMatchScore float64   `json:"cultural_match_score"`
	AppliedInsights    []Insight `json:"applied_insights"`
}
