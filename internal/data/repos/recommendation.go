package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type ProductRecommendationRepo interface {
	Create(dbc dbctx.Context, rows []*domain.ProductRecommendation) ([]*domain.ProductRecommendation, error)
	ListBySearch(dbc dbctx.Context, searchID uuid.UUID) ([]*domain.ProductRecommendation, error)
}

type productRecommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRecommendationRepo(db *gorm.DB, log *logger.Logger) ProductRecommendationRepo {
	return &productRecommendationRepo{db: db, log: log.With("repo", "ProductRecommendationRepo")}
}

func (r *productRecommendationRepo) Create(dbc dbctx.Context, rows []*domain.ProductRecommendation) ([]*domain.ProductRecommendation, error) {
	if len(rows) == 0 {
		return []*domain.ProductRecommendation{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *productRecommendationRepo) ListBySearch(dbc dbctx.Context, searchID uuid.UUID) ([]*domain.ProductRecommendation, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []*domain.ProductRecommendation
	if err := txx.WithContext(dbc.Ctx).
		Where("search_id = ?", searchID).
		Order("cultural_match_score DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
