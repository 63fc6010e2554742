package services

import (
	"context"

	"github.com/fesoni/tastematch-backend/internal/clients/qloo"
	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

// maxSignalTerms caps how many entity/tag search terms are resolved per
// signal. Cost control: each term is one provider round trip.
const maxSignalTerms = 5

// TasteMapper resolves a cultural signal against the taste graph and
// merges the graph's output with rule-based category mapping.
type TasteMapper interface {
	MapSignalToProducts(ctx context.Context, signal domain.CulturalSignal) domain.TasteMapping
}

type tasteMapper struct {
	log  *logger.Logger
	qloo qloo.Client
}

func NewTasteMapper(baseLog *logger.Logger, qlooClient qloo.Client) TasteMapper {
	return &tasteMapper{
		log:  baseLog.With("service", "TasteMapper"),
		qloo: qlooClient,
	}
}

// MapSignalToProducts orchestrates entity/tag resolution, insight and
// trend retrieval, and category merging. Any failure degrades to a
// mapping carrying only the signal's own categories.
func (s *tasteMapper) MapSignalToProducts(ctx context.Context, signal domain.CulturalSignal) domain.TasteMapping {
	if s.qloo == nil {
		return degradedMapping(signal, "taste graph client not wired")
	}

	entityIDs := make([]string, 0, maxSignalTerms)
	for _, term := range capTerms(signal.EntitiesToSearch) {
		results := s.qloo.SearchEntities(ctx, term, signal.TargetEntityType)
		if len(results) == 0 {
			continue
		}
		// The provider ranks its own results; the first hit is the match.
		entityIDs = append(entityIDs, results[0].ID)
	}

	tagIDs := make([]string, 0, maxSignalTerms)
	for _, term := range capTerms(signal.TagsToSearch) {
		results := s.qloo.SearchTags(ctx, term)
		if len(results) == 0 {
			continue
		}
		tagIDs = append(tagIDs, results[0].ID)
	}

	insights := []domain.Insight{}
	if len(entityIDs) > 0 || len(tagIDs) > 0 {
		res := s.qloo.GetInsights(ctx, entityIDs, tagIDs)
		if res.Success {
			insights = res.Insights
		} else {
			s.log.Warn("Insight retrieval degraded", "entities", len(entityIDs), "tags", len(tagIDs))
		}
	}

	trends := []domain.Trend{}
	trendRes := s.qloo.GetTrends(ctx, signal.TagsToSearch)
	if trendRes.Success {
		trends = trendRes.Trends
	}

	ruleCategories := MapKeywordsToCategories(UnionCategories(
		signal.CulturalReferences,
		signal.AestheticKeywords,
		signal.StylePreferences,
	))
	insightCategories := InferCategoriesFromInsights(insights)

	mapping := domain.TasteMapping{
		SignalEntityIDs:   entityIDs,
		SignalTagIDs:      tagIDs,
		CulturalInsights:  insights,
		CulturalTrends:    trends,
		ProductCategories: UnionCategories(signal.ProductCategories, ruleCategories, insightCategories),
		Success:           true,
	}
	mapping.Normalize()
	return mapping
}

func degradedMapping(signal domain.CulturalSignal, reason string) domain.TasteMapping {
	m := domain.TasteMapping{
		ProductCategories: signal.ProductCategories,
		Success:           false,
		Error:             reason,
	}
	m.Normalize()
	return m
}

func capTerms(terms []string) []string {
	if len(terms) > maxSignalTerms {
		return terms[:maxSignalTerms]
	}
	return terms
}
