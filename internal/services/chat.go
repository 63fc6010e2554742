package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/clients/gemini"
	"github.com/fesoni/tastematch-backend/internal/data/repos"
	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fesoni/tastematch-backend/internal/pkg/errors"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
	"github.com/fesoni/tastematch-backend/internal/requestdata"
)

const (
	// historyWindow is how many trailing messages feed the reply prompt.
	historyWindow = 5

	titleMaxLen = 50

	previewMaxLen = 100

	fallbackReply = "I apologize, but I'm having trouble processing your request right now. Please try again."
)

// TurnResult is the outcome of one processed chat turn.
type TurnResult struct {
	ConversationID  uuid.UUID              `json:"conversation_id"`
	Message         string                 `json:"message"`
	CulturalContext domain.CulturalSignal  `json:"cultural_context"`
	QlooData        *domain.TasteMapping   `json:"qloo_data,omitempty"`
	Products        []domain.ScoredProduct `json:"products"`
	VoiceInput      bool                   `json:"voice_input"`
}

// ConversationSummary is one row of the conversation list view.
type ConversationSummary struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MessageCount int64     `json:"message_count"`
	LastMessage  string    `json:"last_message,omitempty"`
}

// ConversationHistory is a conversation plus its full message log.
type ConversationHistory struct {
	ID        uuid.UUID         `json:"id"`
	Title     string            `json:"title"`
	CreatedAt time.Time         `json:"created_at"`
	Messages  []*domain.Message `json:"messages"`
}

type ChatService interface {
	// ProcessMessage runs one full chat turn: persist the user message,
	// extract the cultural signal, reply, optionally search products,
	// and fold the signal into the conversation summary. Turns on the
	// same conversation are serialized.
	ProcessMessage(dbc dbctx.Context, message string, conversationID *uuid.UUID, voiceInput bool) (*TurnResult, error)

	GetConversationHistory(dbc dbctx.Context, conversationID uuid.UUID) (*ConversationHistory, error)
	ListConversations(dbc dbctx.Context) ([]ConversationSummary, error)
	DeleteConversation(dbc dbctx.Context, conversationID uuid.UUID) error
	ListPreferences(dbc dbctx.Context) ([]*domain.CulturalPreference, error)
}

type chatService struct {
	db  *gorm.DB
	log *logger.Logger

	ai        gemini.Client
	extractor SignalExtractor
	taste     TasteMapper
	products  ProductService

	conversations repos.ConversationRepo
	messages      repos.MessageRepo
	preferences   repos.CulturalPreferenceRepo

	locks conversationLocks
}

func NewChatService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ai gemini.Client,
	extractor SignalExtractor,
	taste TasteMapper,
	products ProductService,
	conversationRepo repos.ConversationRepo,
	messageRepo repos.MessageRepo,
	preferenceRepo repos.CulturalPreferenceRepo,
) ChatService {
	return &chatService{
		db:            db,
		log:           baseLog.With("service", "ChatService"),
		ai:            ai,
		extractor:     extractor,
		taste:         taste,
		products:      products,
		conversations: conversationRepo,
		messages:      messageRepo,
		preferences:   preferenceRepo,
	}
}

// conversationLocks serializes turns per conversation. Different
// conversations never contend. Entries are reference counted and drop
// out of the map once the last holder releases, so the map size is
// bounded by the number of in-flight turns.
type conversationLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*conversationLock
}

type conversationLock struct {
	mu   sync.Mutex
	refs int
}

func (c *conversationLocks) acquire(id uuid.UUID) (release func()) {
	c.mu.Lock()
	if c.locks == nil {
		c.locks = make(map[uuid.UUID]*conversationLock)
	}
	l, ok := c.locks[id]
	if !ok {
		l = &conversationLock{}
		c.locks[id] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, id)
		}
		c.mu.Unlock()
	}
}

func (s *chatService) ProcessMessage(dbc dbctx.Context, message string, conversationID *uuid.UUID, voiceInput bool) (*TurnResult, error) {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("%w: empty message", pkgerrors.ErrInvalidArgument)
	}

	conversation, err := s.resolveConversation(dbc, rd.UserID, conversationID, message)
	if err != nil {
		return nil, err
	}

	release := s.locks.acquire(conversation.ID)
	defer release()

	now := time.Now().UTC()
	userMessage := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conversation.ID,
		Role:           domain.MessageRoleUser,
		Content:        message,
		CreatedAt:      now,
	}
	if _, err := s.messages.Create(dbc, []*domain.Message{userMessage}); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}

	signal := s.extractor.Extract(dbc.Ctx, message)

	s.mergeUserPreferences(dbc, rd.UserID, userMessage.ID, signal)

	history, err := s.messages.ListRecent(dbc, conversation.ID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	reply := s.generateReply(dbc, message, history, signal)

	signalJSON, _ := json.Marshal(signal)
	assistantMessage := &domain.Message{
		ID:              uuid.New(),
		ConversationID:  conversation.ID,
		Role:            domain.MessageRoleAssistant,
		Content:         reply,
		CulturalContext: datatypes.JSON(signalJSON),
		CreatedAt:       time.Now().UTC(),
	}
	if _, err := s.messages.Create(dbc, []*domain.Message{assistantMessage}); err != nil {
		return nil, fmt.Errorf("persist assistant message: %w", err)
	}

	var mapping *domain.TasteMapping
	ranked := []domain.ScoredProduct{}
	if ShouldSearchProducts(message, signal) {
		m := s.taste.MapSignalToProducts(dbc.Ctx, signal)
		mapping = &m
		convID := conversation.ID
		ranked = s.products.SearchProducts(dbc, rd.UserID, &convID, signal, m)
	}

	if err := s.mergeConversationSummary(dbc, conversation.ID, rd.UserID, signal); err != nil {
		return nil, fmt.Errorf("merge summary: %w", err)
	}

	return &TurnResult{
		ConversationID:  conversation.ID,
		Message:         reply,
		CulturalContext: signal,
		QlooData:        mapping,
		Products:        ranked,
		VoiceInput:      voiceInput,
	}, nil
}

func (s *chatService) resolveConversation(dbc dbctx.Context, userID uuid.UUID, conversationID *uuid.UUID, message string) (*domain.Conversation, error) {
	if conversationID != nil && *conversationID != uuid.Nil {
		return s.conversations.GetOwned(dbc, *conversationID, userID)
	}

	title := message
	if len(title) > titleMaxLen {
		title = title[:titleMaxLen] + "..."
	}
	now := time.Now().UTC()
	conversation := &domain.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.conversations.Create(dbc, []*domain.Conversation{conversation}); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conversation, nil
}

// mergeUserPreferences folds the signal's keyword fields into the
// user's long-lived preference rows. First write wins on confidence;
// failures are logged and never abort the turn.
func (s *chatService) mergeUserPreferences(dbc dbctx.Context, userID uuid.UUID, messageID uuid.UUID, signal domain.CulturalSignal) {
	rows := make([]*domain.CulturalPreference, 0, 16)
	msgID := messageID
	for prefType, values := range signal.KeywordFields() {
		for _, value := range values {
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}
			rows = append(rows, &domain.CulturalPreference{
				UserID:          userID,
				PreferenceType:  prefType,
				PreferenceValue: value,
				ConfidenceScore: signal.ConfidenceScore,
				MessageID:       &msgID,
			})
		}
	}
	if len(rows) == 0 {
		return
	}
	if err := s.preferences.CreateIfAbsent(dbc, rows); err != nil {
		s.log.Warn("Preference merge failed", "user_id", userID, "error", err)
	}
}

func (s *chatService) generateReply(dbc dbctx.Context, message string, history []*domain.Message, signal domain.CulturalSignal) string {
	if s.ai == nil {
		return fallbackReply
	}

	var historyLines []string
	for _, msg := range history {
		historyLines = append(historyLines, msg.Role+": "+msg.Content)
	}
	signalJSON, _ := json.MarshalIndent(signal, "", "  ")

	prompt := fmt.Sprintf(`You are TasteMatch, an AI shopping assistant that understands cultural preferences and aesthetics.

Cultural Context: %s

Recent Conversation:
%s

Current Message: %s

Respond as a helpful, culturally-aware shopping assistant. Be conversational, understanding, and helpful.
If the user describes aesthetics or cultural preferences, acknowledge them and ask clarifying questions.
If they're ready to shop, suggest that you can find products that match their vibe.`,
		string(signalJSON), strings.Join(historyLines, "\n"), message)

	reply, err := s.ai.GenerateText(dbc.Ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			s.log.Warn("Reply generation failed", "error", err)
		}
		return fallbackReply
	}
	return strings.TrimSpace(reply)
}

// mergeConversationSummary unions the turn's list-valued signal fields
// into the conversation's running cultural summary. The row is re-read
// here, inside the turn lock: the conversation loaded before the lock
// can carry a summary an overlapping turn has since rewritten.
func (s *chatService) mergeConversationSummary(dbc dbctx.Context, conversationID, userID uuid.UUID, signal domain.CulturalSignal) error {
	conversation, err := s.conversations.GetOwned(dbc, conversationID, userID)
	if err != nil {
		return err
	}

	summary := map[string][]string{}
	if len(conversation.CulturalSummary) > 0 {
		if err := json.Unmarshal(conversation.CulturalSummary, &summary); err != nil {
			s.log.Warn("Resetting malformed conversation summary", "conversation_id", conversation.ID, "error", err)
			summary = map[string][]string{}
		}
	}

	for field, values := range signal.KeywordFields() {
		existing := summary[field]
		seen := make(map[string]bool, len(existing))
		for _, v := range existing {
			seen[v] = true
		}
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			existing = append(existing, v)
		}
		if len(existing) > 0 {
			summary[field] = existing
		}
	}

	merged, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	conversation.CulturalSummary = datatypes.JSON(merged)
	return s.conversations.UpdateSummary(dbc, conversation.ID, conversation.CulturalSummary)
}

// ShouldSearchProducts is the turn's search decision: a shopping-intent
// keyword in the raw message, or a confident signal that already names
// product categories.
func ShouldSearchProducts(message string, signal domain.CulturalSignal) bool {
	searchKeywords := []string{
		"find", "search", "buy", "purchase", "shop", "recommend", "suggest",
		"want", "need", "looking for", "show me", "products", "items",
	}

	lower := strings.ToLower(message)
	for _, kw := range searchKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return signal.ConfidenceScore > 0.6 && len(signal.ProductCategories) > 0
}

func (s *chatService) GetConversationHistory(dbc dbctx.Context, conversationID uuid.UUID) (*ConversationHistory, error) {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}

	conversation, err := s.conversations.GetOwned(dbc, conversationID, rd.UserID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByConversation(dbc, conversation.ID)
	if err != nil {
		return nil, err
	}

	return &ConversationHistory{
		ID:        conversation.ID,
		Title:     conversation.Title,
		CreatedAt: conversation.CreatedAt,
		Messages:  messages,
	}, nil
}

func (s *chatService) ListConversations(dbc dbctx.Context) ([]ConversationSummary, error) {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}

	conversations, err := s.conversations.ListActiveByUser(dbc, rd.UserID)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		count, err := s.messages.CountByConversation(dbc, conv.ID)
		if err != nil {
			return nil, err
		}

		preview := ""
		last, err := s.messages.GetLast(dbc, conv.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			preview = last.Content
			if len(preview) > previewMaxLen {
				preview = preview[:previewMaxLen]
			}
		}

		out = append(out, ConversationSummary{
			ID:           conv.ID,
			Title:        conv.Title,
			CreatedAt:    conv.CreatedAt,
			UpdatedAt:    conv.UpdatedAt,
			MessageCount: count,
			LastMessage:  preview,
		})
	}
	return out, nil
}

func (s *chatService) DeleteConversation(dbc dbctx.Context, conversationID uuid.UUID) error {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return pkgerrors.ErrUnauthorized
	}

	conversation, err := s.conversations.GetOwned(dbc, conversationID, rd.UserID)
	if err != nil {
		return err
	}
	return s.conversations.SoftDelete(dbc, conversation.ID)
}

func (s *chatService) ListPreferences(dbc dbctx.Context) ([]*domain.CulturalPreference, error) {
	rd := requestdata.GetRequestData(dbc.Ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, pkgerrors.ErrUnauthorized
	}
	return s.preferences.ListByUser(dbc, rd.UserID)
}
