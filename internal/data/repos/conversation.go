package repos

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fesoni/tastematch-backend/internal/pkg/errors"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type ConversationRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Conversation) ([]*domain.Conversation, error)
	// GetOwned returns the conversation only when it belongs to userID;
	// missing or foreign conversations both map to ErrNotFound.
	GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*domain.Conversation, error)
	ListActiveByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Conversation, error)
	UpdateSummary(dbc dbctx.Context, id uuid.UUID, summary datatypes.JSON) error
	SoftDelete(dbc dbctx.Context, id uuid.UUID) error
}

type conversationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, log *logger.Logger) ConversationRepo {
	return &conversationRepo{db: db, log: log.With("repo", "ConversationRepo")}
}

func (r *conversationRepo) Create(dbc dbctx.Context, rows []*domain.Conversation) ([]*domain.Conversation, error) {
	if len(rows) == 0 {
		return []*domain.Conversation{}, nil
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

func (r *conversationRepo) GetOwned(dbc dbctx.Context, id uuid.UUID, userID uuid.UUID) (*domain.Conversation, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing conversation_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row domain.Conversation
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

func (r *conversationRepo) ListActiveByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.Conversation, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []*domain.Conversation
	if err := txx.WithContext(dbc.Ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("updated_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *conversationRepo) UpdateSummary(dbc dbctx.Context, id uuid.UUID, summary datatypes.JSON) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"cultural_summary": summary,
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *conversationRepo) SoftDelete(dbc dbctx.Context, id uuid.UUID) error {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error
}
