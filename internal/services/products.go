package services

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/fesoni/tastematch-backend/internal/clients/retail"
	"github.com/fesoni/tastematch-backend/internal/data/repos"
	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

// ProductService runs catalog search across retailers, ranks the
// candidates and persists the search run plus its recommendations.
type ProductService interface {
	SearchProducts(dbc dbctx.Context, userID uuid.UUID, conversationID *uuid.UUID, signal domain.CulturalSignal, mapping domain.TasteMapping) []domain.ScoredProduct

	// SearchDirect runs a one-off search outside the chat pipeline. The
	// raw query leads the keyword list; the signal's descriptors and the
	// mapping's categories follow.
	SearchDirect(dbc dbctx.Context, userID uuid.UUID, query string, signal domain.CulturalSignal, mapping domain.TasteMapping) []domain.ScoredProduct

	ListSearchHistory(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*domain.ProductSearch, error)
	ListRecommendations(dbc dbctx.Context, searchID uuid.UUID) ([]*domain.ProductRecommendation, error)
}

type productService struct {
	log             *logger.Logger
	retail          retail.Client
	scorer          CulturalMatchScorer
	searches        repos.ProductSearchRepo
	recommendations repos.ProductRecommendationRepo
}

func NewProductService(
	baseLog *logger.Logger,
	retailClient retail.Client,
	scorer CulturalMatchScorer,
	searchRepo repos.ProductSearchRepo,
	recommendationRepo repos.ProductRecommendationRepo,
) ProductService {
	return &productService{
		log:             baseLog.With("service", "ProductService"),
		retail:          retailClient,
		scorer:          scorer,
		searches:        searchRepo,
		recommendations: recommendationRepo,
	}
}

// SearchProducts fans search out across the configured retailers,
// ranks the combined candidates, and records the run. Persistence
// failures are logged and do not drop the results.
func (s *productService) SearchProducts(dbc dbctx.Context, userID uuid.UUID, conversationID *uuid.UUID, signal domain.CulturalSignal, mapping domain.TasteMapping) []domain.ScoredProduct {
	return s.run(dbc, userID, conversationID, ExtractSearchKeywords(signal, mapping), signal, mapping)
}

func (s *productService) SearchDirect(dbc dbctx.Context, userID uuid.UUID, query string, signal domain.CulturalSignal, mapping domain.TasteMapping) []domain.ScoredProduct {
	keywords := append(strings.Fields(query), ExtractSearchKeywords(signal, mapping)...)
	return s.run(dbc, userID, nil, dedupeKeywords(keywords), signal, mapping)
}

func (s *productService) run(dbc dbctx.Context, userID uuid.UUID, conversationID *uuid.UUID, keywords []string, signal domain.CulturalSignal, mapping domain.TasteMapping) []domain.ScoredProduct {
	if len(keywords) == 0 {
		return []domain.ScoredProduct{}
	}

	retailers := s.retail.Retailers()
	perRetailer := make([][]domain.ProductCandidate, len(retailers))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(dbc.Ctx)
	for i, retailer := range retailers {
		g.Go(func() error {
			found := s.retail.Search(gctx, retailer, keywords)
			mu.Lock()
			perRetailer[i] = found
			mu.Unlock()
			return nil
		})
	}
	// Searches never return errors; the group only orders completion.
	_ = g.Wait()

	candidates := make([]domain.ProductCandidate, 0, 32)
	for _, batch := range perRetailer {
		candidates = append(candidates, batch...)
	}

	ranked := s.scorer.Rank(candidates, signal, mapping)

	s.persistRun(dbc, userID, conversationID, keywords, signal, mapping, ranked)

	return ranked
}

func (s *productService) persistRun(dbc dbctx.Context, userID uuid.UUID, conversationID *uuid.UUID, keywords []string, signal domain.CulturalSignal, mapping domain.TasteMapping, ranked []domain.ScoredProduct) {
	if s.searches == nil {
		return
	}

	signalJSON, _ := json.Marshal(signal)
	insightsJSON, _ := json.Marshal(mapping.CulturalInsights)
	trendsJSON, _ := json.Marshal(mapping.CulturalTrends)

	search := &domain.ProductSearch{
		ID:              uuid.New(),
		UserID:          userID,
		ConversationID:  conversationID,
		Query:           strings.Join(keywords, " "),
		CulturalContext: datatypes.JSON(signalJSON),
		QlooInsights:    datatypes.JSON(insightsJSON),
		CulturalTrends:  datatypes.JSON(trendsJSON),
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := s.searches.Create(dbc, []*domain.ProductSearch{search}); err != nil {
		s.log.Warn("Search record write failed", "user_id", userID, "error", err)
		return
	}

	if s.recommendations == nil || len(ranked) == 0 {
		return
	}

	rows := make([]*domain.ProductRecommendation, 0, len(ranked))
	now := time.Now().UTC()
	for _, p := range ranked {
		appliedJSON, _ := json.Marshal(p.AppliedInsights)
		rows = append(rows, &domain.ProductRecommendation{
			ID:                 uuid.New(),
			SearchID:           search.ID,
			ProductID:          p.ProductID,
			Title:              p.Title,
			URL:                p.URL,
			Image:              p.Image,
			Price:              p.Price,
			RetailPrice:        p.RetailPrice,
			Rating:             p.Rating,
			ReviewCount:        p.ReviewCount,
			Retailer:           p.Retailer,
			CulturalMatchScore: p.CulturalMatchScore,
			AppliedInsights:    datatypes.JSON(appliedJSON),
			CreatedAt:          now,
		})
	}
	if _, err := s.recommendations.Create(dbc, rows); err != nil {
		s.log.Warn("Recommendation write failed", "search_id", search.ID, "error", err)
	}
}

func (s *productService) ListSearchHistory(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*domain.ProductSearch, error) {
	return s.searches.ListByUser(dbc, userID, limit)
}

func (s *productService) ListRecommendations(dbc dbctx.Context, searchID uuid.UUID) ([]*domain.ProductRecommendation, error) {
	return s.recommendations.ListBySearch(dbc, searchID)
}

// ExtractSearchKeywords collects the signal's descriptor fields plus the
// mapping's categories into one lowercased keyword list, de-duplicated
// in first-seen order.
func ExtractSearchKeywords(signal domain.CulturalSignal, mapping domain.TasteMapping) []string {
	merged := make([]string, 0, 16)
	merged = append(merged, signal.AestheticKeywords...)
	merged = append(merged, signal.StylePreferences...)
	merged = append(merged, signal.MoodDescriptors...)
	merged = append(merged, mapping.ProductCategories...)
	return dedupeKeywords(merged)
}

func dedupeKeywords(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
