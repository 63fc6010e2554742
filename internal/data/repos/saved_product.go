package repos

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fesoni/tastematch-backend/internal/pkg/errors"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type SavedProductRepo interface {
	Create(dbc dbctx.Context, row *domain.SavedProduct) (*domain.SavedProduct, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.SavedProduct, error)
	GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*domain.SavedProduct, error)
	Delete(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) error
}

type savedProductRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedProductRepo(db *gorm.DB, log *logger.Logger) SavedProductRepo {
	return &savedProductRepo{db: db, log: log.With("repo", "SavedProductRepo")}
}

func (r *savedProductRepo) Create(dbc dbctx.Context, row *domain.SavedProduct) (*domain.SavedProduct, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *savedProductRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.SavedProduct, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []*domain.SavedProduct
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *savedProductRepo) GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*domain.SavedProduct, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row domain.SavedProduct
	err := txx.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *savedProductRepo) Delete(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.SavedProduct{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrNotFound
	}
	return nil
}
