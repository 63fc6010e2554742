package domain

// Entity types the taste graph can resolve a search term against.
const (
	EntityTypeMovie  = "movie"
	EntityTypeArtist = "artist"
	EntityTypeBook   = "book"
	EntityTypeBrand  = "brand"
	EntityTypeTVShow = "tv_show"
	EntityTypePerson = "person"
	EntityTypePlace  = "place"
)

var validEntityTypes = map[string]bool{
	EntityTypeMovie:  true,
	EntityTypeArtist: true,
	EntityTypeBook:   true,
	EntityTypeBrand:  true,
	EntityTypeTVShow: true,
	EntityTypePerson: true,
	EntityTypePlace:  true,
}

// CulturalSignal is the structured record extracted from a single chat
// message: free-text cultural references plus keyword sets that drive
// category mapping, taste-graph resolution and product scoring.
type CulturalSignal struct {
	CulturalReferences []string `json:"cultural_references"`
	AestheticKeywords  []string `json:"aesthetic_keywords"`
	StylePreferences   []string `json:"style_preferences"`
	MoodDescriptors    []string `json:"mood_descriptors"`
	ProductCategories  []string `json:"product_categories"`
	EntitiesToSearch   []string `json:"entities_to_search"`
	TagsToSearch       []string `json:"tags_to_search"`
	TargetEntityType   string   `json:"target_entity_type"`
	ConfidenceScore    float64  `json:"confidence_score"`
}

// EmptyCulturalSignal is the fail-soft value: extraction that cannot
// produce a usable signal degrades to this instead of an error.
func EmptyCulturalSignal() CulturalSignal {
	s := CulturalSignal{TargetEntityType: EntityTypeBrand}
	s.Normalize()
	return s
}

// Normalize enforces the record invariants: collection fields are never
// nil, the entity type is always one of the known values, and the
// confidence score stays inside [0, 1].
func (s *CulturalSignal) Normalize() {
	s.CulturalReferences = nonNil(s.CulturalReferences)
	s.AestheticKeywords = nonNil(s.AestheticKeywords)
	s.StylePreferences = nonNil(s.StylePreferences)
	s.MoodDescriptors = nonNil(s.MoodDescriptors)
	s.ProductCategories = nonNil(s.ProductCategories)
	s.EntitiesToSearch = nonNil(s.EntitiesToSearch)
	s.TagsToSearch = nonNil(s.TagsToSearch)
	if !validEntityTypes[s.TargetEntityType] {
		s.TargetEntityType = EntityTypeBrand
	}
	if s.ConfidenceScore < 0 {
		s.ConfidenceScore = 0
	}
	if s.ConfidenceScore > 1 {
		s.ConfidenceScore = 1
	}
}

// KeywordFields returns the list-valued fields keyed by preference type,
// used when merging a signal into a user's long-lived preference profile.
func (s *CulturalSignal) KeywordFields() map[string][]string {
	return map[string][]string{
		"cultural_references": s.CulturalReferences,
		"aesthetic_keywords":  s.AestheticKeywords,
		"style_preferences":   s.StylePreferences,
		"mood_descriptors":    s.MoodDescriptors,
		"product_categories":  s.ProductCategories,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
