package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fesoni/tastematch-backend/internal/data/repos"
	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
)

func TestShouldSearchProducts(t *testing.T) {
	cases := []struct {
		name    string
		message string
		signal  domain.CulturalSignal
		want    bool
	}{
		{
			name:    "explicit_find",
			message: "find me something for my living room",
			want:    true,
		},
		{
			name:    "looking_for_phrase",
			message: "I'm looking for a new lamp",
			want:    true,
		},
		{
			name:    "show_me_phrase",
			message: "Show Me some options",
			want:    true,
		},
		{
			name:    "keyword_inside_word",
			message: "I wanted to chat about aesthetics",
			// "want" is a substring of "wanted".
			want: true,
		},
		{
			name:    "confident_signal_with_categories",
			message: "my place feels very scandinavian lately",
			signal: domain.CulturalSignal{
				ConfidenceScore:   0.8,
				ProductCategories: []string{"Furniture"},
			},
			want: true,
		},
		{
			name:    "confident_signal_without_categories",
			message: "my place feels very scandinavian lately",
			signal: domain.CulturalSignal{
				ConfidenceScore: 0.8,
			},
			want: false,
		},
		{
			name:    "confidence_at_threshold_not_enough",
			message: "my place feels very scandinavian lately",
			signal: domain.CulturalSignal{
				ConfidenceScore:   0.6,
				ProductCategories: []string{"Furniture"},
			},
			want: false,
		},
		{
			name:    "plain_chat",
			message: "hello there",
			want:    false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ShouldSearchProducts(tc.message, tc.signal)
			if got != tc.want {
				t.Fatalf("ShouldSearchProducts(%q)=%v, want %v", tc.message, got, tc.want)
			}
		})
	}
}

func newChatTestDB(t *testing.T) *gorm.DB {
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
	if err := db.AutoMigrate(&domain.Conversation{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestConversationSummarySurvivesOverlappingTurns(t *testing.T) {
	db := newChatTestDB(t)
	log := testLogger(t)
	conversations := repos.NewConversationRepo(db, log)
	svc := &chatService{log: log, conversations: conversations}

	userID := uuid.New()
	now := time.Now().UTC()
	conv := &domain.Conversation{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     "vibes",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	dbc := dbctx.Context{Ctx: context.Background()}
	if _, err := conversations.Create(dbc, []*domain.Conversation{conv}); err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	// Two turns holding pre-lock views of the same conversation. The
	// merge must re-read under the lock so neither write is lost.
	var wg sync.WaitGroup
	for _, kw := range []string{"alpha", "beta"} {
		wg.Add(1)
		go func(kw string) {
			defer wg.Done()
			release := svc.locks.acquire(conv.ID)
			defer release()
			signal := domain.CulturalSignal{AestheticKeywords: []string{kw}}
			signal.Normalize()
			if err := svc.mergeConversationSummary(dbc, conv.ID, userID, signal); err != nil {
				t.Errorf("merge %q: %v", kw, err)
			}
		}(kw)
	}
	wg.Wait()

	row, err := conversations.GetOwned(dbc, conv.ID, userID)
	if err != nil {
		t.Fatalf("reload conversation: %v", err)
	}
	var summary map[string][]string
	if err := json.Unmarshal(row.CulturalSummary, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	got := summary["aesthetic_keywords"]
	seen := map[string]bool{}
	for _, v := range got {
		seen[v] = true
	}
	if !seen["alpha"] || !seen["beta"] {
		t.Fatalf("summary keywords = %v, want both alpha and beta kept", got)
	}
}

func TestConversationLocksEvictReleasedEntries(t *testing.T) {
	var locks conversationLocks
	id := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := locks.acquire(id)
			release()
		}()
	}
	wg.Wait()

	locks.mu.Lock()
	n := len(locks.locks)
	locks.mu.Unlock()
	if n != 0 {
		t.Fatalf("lock entries = %d, want 0 once every turn released", n)
	}
}
