package repos

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
	pkgerrors "github.com/fesoni/tastematch-backend/internal/pkg/errors"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Shared cache keeps one database across the pooled connections.
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(
		&domain.Conversation{},
		&domain.Message{},
		&domain.CulturalPreference{},
		&domain.ProductSearch{},
		&domain.ProductRecommendation{},
		&domain.SavedProduct{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func testCtx() dbctx.Context {
	return dbctx.Context{Ctx: context.Background()}
}

func TestPreferenceFirstWriteWins(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewCulturalPreferenceRepo(db, log)
	userID := uuid.New()

	first := &domain.CulturalPreference{
		UserID:          userID,
		PreferenceType:  "aesthetic_keywords",
		PreferenceValue: "cozy",
		ConfidenceScore: 0.9,
	}
	if err := repo.CreateIfAbsent(testCtx(), []*domain.CulturalPreference{first}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	repeat := &domain.CulturalPreference{
		UserID:          userID,
		PreferenceType:  "aesthetic_keywords",
		PreferenceValue: "cozy",
		ConfidenceScore: 0.1,
	}
	if err := repo.CreateIfAbsent(testCtx(), []*domain.CulturalPreference{repeat}); err != nil {
		t.Fatalf("repeat create: %v", err)
	}

	rows, err := repo.ListByUser(testCtx(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].ConfidenceScore != 0.9 {
		t.Fatalf("confidence = %v, want first write 0.9", rows[0].ConfidenceScore)
	}
}

func TestPreferenceDistinctValuesAccumulate(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	repo := NewCulturalPreferenceRepo(db, log)
	userID := uuid.New()

	rows := []*domain.CulturalPreference{
		{UserID: userID, PreferenceType: "aesthetic_keywords", PreferenceValue: "cozy", ConfidenceScore: 0.5},
		{UserID: userID, PreferenceType: "aesthetic_keywords", PreferenceValue: "warm", ConfidenceScore: 0.5},
		{UserID: userID, PreferenceType: "mood_descriptors", PreferenceValue: "cozy", ConfidenceScore: 0.5},
	}
	if err := repo.CreateIfAbsent(testCtx(), rows); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.ListByUser(testCtx(), userID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
}

func TestConversationSoftDeleteKeepsRecords(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	conversations := NewConversationRepo(db, log)
	messages := NewMessageRepo(db, log)
	userID := uuid.New()

	conv := &domain.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "cozy shopping",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := conversations.Create(testCtx(), []*domain.Conversation{conv}); err != nil {
		t.Fatalf("create conversation: %v", err)
	}
	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		Role:           domain.MessageRoleUser,
		Content:        "find me a lamp",
		CreatedAt:      time.Now().UTC(),
	}
	if _, err := messages.Create(testCtx(), []*domain.Message{msg}); err != nil {
		t.Fatalf("create message: %v", err)
	}

	if err := conversations.SoftDelete(testCtx(), conv.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// The row still exists and stays owned; only the listing hides it.
	row, err := conversations.GetOwned(testCtx(), conv.ID, userID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if row.IsActive {
		t.Fatal("conversation still active after soft delete")
	}

	active, err := conversations.ListActiveByUser(testCtx(), userID)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active conversations = %d, want 0", len(active))
	}

	kept, err := messages.ListByConversation(testCtx(), conv.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(kept) != 1 {
		t.Fatalf("messages = %d, want 1 preserved", len(kept))
	}
}

func TestConversationGetOwnedRejectsForeignUser(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	conversations := NewConversationRepo(db, log)

	owner := uuid.New()
	conv := &domain.Conversation{
		ID:        uuid.New(),
		UserID:    owner,
		Title:     "private",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if _, err := conversations.Create(testCtx(), []*domain.Conversation{conv}); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := conversations.GetOwned(testCtx(), conv.ID, uuid.New())
	if !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound for foreign user", err)
	}
}

func TestMessageListRecentChronological(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	messages := NewMessageRepo(db, log)
	convID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 8; i++ {
		msg := &domain.Message{
			ID:             uuid.New(),
			ConversationID: convID,
			Role:           domain.MessageRoleUser,
			Content:        fmt.Sprintf("message %d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
		if _, err := messages.Create(testCtx(), []*domain.Message{msg}); err != nil {
			t.Fatalf("create message %d: %v", i, err)
		}
	}

	recent, err := messages.ListRecent(testCtx(), convID, 5)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("recent = %d, want 5", len(recent))
	}
	if recent[0].Content != "message 3" || recent[4].Content != "message 7" {
		t.Fatalf("window [%q..%q], want [message 3..message 7]", recent[0].Content, recent[4].Content)
	}
}

func TestSavedProductDeleteScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	saved := NewSavedProductRepo(db, log)

	owner := uuid.New()
	row := &domain.SavedProduct{
		ID:        uuid.New(),
		UserID:    owner,
		ProductID: "B000",
		Title:     "Lamp",
		URL:       "https://example.com/lamp",
		Retailer:  "amazon",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := saved.Create(testCtx(), row); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := saved.Delete(testCtx(), row.ID, uuid.New()); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("foreign delete err = %v, want ErrNotFound", err)
	}
	if err := saved.Delete(testCtx(), row.ID, owner); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	rows, err := saved.ListByUser(testCtx(), owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want 0 after delete", len(rows))
	}
}

func TestRecommendationsOrderedByScore(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	searches := NewProductSearchRepo(db, log)
	recommendations := NewProductRecommendationRepo(db, log)

	userID := uuid.New()
	search := &domain.ProductSearch{
		ID:        uuid.New(),
		UserID:    userID,
		Query:     "cozy lamp",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := searches.Create(testCtx(), []*domain.ProductSearch{search}); err != nil {
		t.Fatalf("create search: %v", err)
	}

	rows := []*domain.ProductRecommendation{
		{ID: uuid.New(), SearchID: search.ID, ProductID: "low", Title: "a", URL: "u", Retailer: "amazon", CulturalMatchScore: 0.2, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), SearchID: search.ID, ProductID: "high", Title: "b", URL: "u", Retailer: "amazon", CulturalMatchScore: 0.9, CreatedAt: time.Now().UTC()},
		{ID: uuid.New(), SearchID: search.ID, ProductID: "mid", Title: "c", URL: "u", Retailer: "walmart", CulturalMatchScore: 0.5, CreatedAt: time.Now().UTC()},
	}
	if _, err := recommendations.Create(testCtx(), rows); err != nil {
		t.Fatalf("create recommendations: %v", err)
	}

	got, err := recommendations.ListBySearch(testCtx(), search.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("rows = %d, want 3", len(got))
	}
	if got[0].ProductID != "high" || got[1].ProductID != "mid" || got[2].ProductID != "low" {
		t.Fatalf("order = [%s %s %s], want [high mid low]", got[0].ProductID, got[1].ProductID, got[2].ProductID)
	}
}
