package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

type MessageRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Message) ([]*domain.Message, error)
	ListByConversation(dbc dbctx.Context, conversationID uuid.UUID) ([]*domain.Message, error)
	// ListRecent returns the newest limit messages in chronological order.
	ListRecent(dbc dbctx.Context, conversationID uuid.UUID, limit int) ([]*domain.Message, error)
	CountByConversation(dbc dbctx.Context, conversationID uuid.UUID) (int64, error)
	GetLast(dbc dbctx.Context, conversationID uuid.UUID) (*domain.Message, error)
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, log *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: log.With("repo", "MessageRepo")}
}

func (r *messageRepo) Create(dbc dbctx.Context, rows []*domain.Message) ([]*domain.Message, error) {
	if len(rows) == 0 {
		return []*domain.Message{}, nil
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

func (r *messageRepo) ListByConversation(dbc dbctx.Context, conversationID uuid.UUID) ([]*domain.Message, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("missing conversation_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []*domain.Message
	if err := txx.WithContext(dbc.Ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *messageRepo) ListRecent(dbc dbctx.Context, conversationID uuid.UUID, limit int) ([]*domain.Message, error) {
	if conversationID == uuid.Nil {
		return nil, fmt.Errorf("missing conversation_id")
	}
	if limit <= 0 {
		limit = 5
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var rows []*domain.Message
	if err := txx.WithContext(dbc.Ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	// Newest-first from the query; flip back to chronological.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (r *messageRepo) CountByConversation(dbc dbctx.Context, conversationID uuid.UUID) (int64, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *messageRepo) GetLast(dbc dbctx.Context, conversationID uuid.UUID) (*domain.Message, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var row domain.Message
	err := txx.WithContext(dbc.Ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
