package repos

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type ProductSearchRepo interface {
	Create(dbc dbctx.Context, rows []*domain.ProductSearch) ([]*domain.ProductSearch, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*domain.ProductSearch, error)
}

type productSearchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductSearchRepo(db *gorm.DB, log *logger.Logger) ProductSearchRepo {
	return &productSearchRepo{db: db, log: log.With("repo", "ProductSearchRepo")}
}

func (r *productSearchRepo) Create(dbc dbctx.Context, rows []*domain.ProductSearch) ([]*domain.ProductSearch, error) {
	if len(rows) == 0 {
		return []*domain.ProductSearch{}, nil
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

func (r *productSearchRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*domain.ProductSearch, error) {
	if limit <= 0 {
		limit = 50
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []*domain.ProductSearch
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
