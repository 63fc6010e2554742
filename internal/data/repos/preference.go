package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type CulturalPreferenceRepo interface {
	// CreateIfAbsent inserts rows that do not yet exist for their
	// (user, type, value) key. Existing rows keep their original
	// confidence score: first write wins.
	CreateIfAbsent(dbc dbctx.Context, rows []*domain.CulturalPreference) error
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.CulturalPreference, error)
}

type culturalPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCulturalPreferenceRepo(db *gorm.DB, log *logger.Logger) CulturalPreferenceRepo {
	return &culturalPreferenceRepo{db: db, log: log.With("repo", "CulturalPreferenceRepo")}
}

func (r *culturalPreferenceRepo) CreateIfAbsent(dbc dbctx.Context, rows []*domain.CulturalPreference) error {
	if len(rows) == 0 {
		return nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "preference_type"},
				{Name: "preference_value"},
			},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (r *culturalPreferenceRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.CulturalPreference, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []*domain.CulturalPreference
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
