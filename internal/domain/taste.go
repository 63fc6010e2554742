package domain

// Entity is a taste-graph entity returned by entity search.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Tag is a taste-graph tag returned by tag search.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Insight is a cross-domain cultural association returned by the taste
// graph (e.g. a brand associated with an aesthetic).
type Insight struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Trend is a taste-graph trend record.
type Trend struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// TasteMapping is the result of resolving a cultural signal against the
// taste graph. On failure it degrades to the signal's own categories
// with empty insights and trends.
type TasteMapping struct {
	SignalEntityIDs   []string  `json:"signal_entity_ids"`
	SignalTagIDs      []string  `json:"signal_tag_ids"`
	CulturalInsights  []Insight `json:"cultural_insights"`
	CulturalTrends    []Trend   `json:"cultural_trends"`
	ProductCategories []string  `json:"product_categories"`
	Success           bool      `json:"success"`
	Error             string    `json:"error,omitempty"`
}

func (m *TasteMapping) Normalize() {
	m.SignalEntityIDs = nonNil(m.SignalEntityIDs)
	m.SignalTagIDs = nonNil(m.SignalTagIDs)
	if m.CulturalInsights == nil {
		m.CulturalInsights = []Insight{}
	}
	if m.CulturalTrends == nil {
		m.CulturalTrends = []Trend{}
	}
	m.ProductCategories = nonNil(m.ProductCategories)
}
