package services

import (
	"sort"
	"strings"

	"github.com/fesoni/tastematch-backend/internal/domain"
)

// MaxRankedProducts is the presentation cap on ranked results.
const MaxRankedProducts = 12

// Score contribution constants. Each source contributes a bounded
// partial score; the final sum is clamped to [0, 1].
const (
	insightBonus     = 0.25
	insightCap       = 0.6
	aestheticBonus   = 0.1
	aestheticCap     = 0.2
	styleBonus       = 0.05
	styleCap         = 0.1
	moodBonus        = 0.05
	moodCap          = 0.1
	ratingBonusHigh  = 0.05
	ratingBonusMid   = 0.03
	reviewBonusHigh  = 0.02
	reviewBonusMid   = 0.01
	primeBonus       = 0.02
	discountMultiple = 0.05
	// The discount cap sits below the multiplier ceiling on purpose:
	// deep discounts signal clearance stock, not cultural fit.
	discountCap = 0.02
)

// CulturalMatchScorer ranks product candidates against a cultural
// signal and its taste-graph mapping. Pure computation, no I/O.
type CulturalMatchScorer interface {
	Score(product domain.ProductCandidate, signal domain.CulturalSignal, mapping domain.TasteMapping) (float64, []domain.Insight)
	Rank(products []domain.ProductCandidate, signal domain.CulturalSignal, mapping domain.TasteMapping) []domain.ScoredProduct
}

type culturalMatchScorer struct{}

func NewCulturalMatchScorer() CulturalMatchScorer {
	return &culturalMatchScorer{}
}

// Score computes the additive capped match score for one product and
// returns the insights whose names matched the product text.
func (s *culturalMatchScorer) Score(product domain.ProductCandidate, signal domain.CulturalSignal, mapping domain.TasteMapping) (float64, []domain.Insight) {
	title := strings.ToLower(product.Title)
	haystack := title
	if desc, ok := product.Raw["description"].(string); ok && desc != "" {
		haystack = title + " " + strings.ToLower(desc)
	}

	score := 0.0

	applied := make([]domain.Insight, 0, 4)
	insightScore := 0.0
	for _, in := range mapping.CulturalInsights {
		name := strings.ToLower(strings.TrimSpace(in.Name))
		if name == "" || !strings.Contains(haystack, name) {
			continue
		}
		applied = append(applied, in)
		insightScore += insightBonus
		if insightScore >= insightCap {
			insightScore = insightCap
			break
		}
	}
	score += insightScore

	score += keywordOverlap(title, signal.AestheticKeywords, aestheticBonus, aestheticCap)
	score += keywordOverlap(title, signal.StylePreferences, styleBonus, styleCap)
	score += keywordOverlap(title, signal.MoodDescriptors, moodBonus, moodCap)

	switch {
	case product.Rating > 4.5:
		score += ratingBonusHigh
	case product.Rating > 4.0:
		score += ratingBonusMid
	}

	switch {
	case product.ReviewCount > 1000:
		score += reviewBonusHigh
	case product.ReviewCount > 100:
		score += reviewBonusMid
	}

	if product.Prime {
		score += primeBonus
	}

	if product.RetailPrice > 0 && product.Price > 0 && product.Price < product.RetailPrice {
		ratio := (product.RetailPrice - product.Price) / product.RetailPrice
		discount := discountMultiple * ratio
		if discount > discountCap {
			discount = discountCap
		}
		score += discount
	}

	if score > 1.0 {
		score = 1.0
	}
	if score < 0.0 {
		score = 0.0
	}
	return score, applied
}

// Rank scores every candidate, sorts descending by score with ties
// keeping input order, and truncates to the presentation cap.
func (s *culturalMatchScorer) Rank(products []domain.ProductCandidate, signal domain.CulturalSignal, mapping domain.TasteMapping) []domain.ScoredProduct {
	scored := make([]domain.ScoredProduct, 0, len(products))
	for _, p := range products {
		score, applied := s.Score(p, signal, mapping)
		scored = append(scored, domain.ScoredProduct{
			ProductCandidate:   p,
			CulturalMatchScore: score,
			AppliedInsights:    applied,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].CulturalMatchScore > scored[j].CulturalMatchScore
	})

	if len(scored) > MaxRankedProducts {
		scored = scored[:MaxRankedProducts]
	}
	return scored
}

func keywordOverlap(title string, keywords []string, bonus, cap float64) float64 {
	total := 0.0
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" || !strings.Contains(title, kw) {
			continue
		}
		total += bonus
		if total >= cap {
			return cap
		}
	}
	return total
}
