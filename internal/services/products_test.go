package services

import (
	"context"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/dbctx"
)

type fakeRetailClient struct {
	mu        sync.Mutex
	queries   map[string][]string
	results   map[string][]domain.ProductCandidate
	retailers []string
}

func (f *fakeRetailClient) Search(ctx context.Context, retailer string, keywords []string) []domain.ProductCandidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries[retailer] = append([]string(nil), keywords...)
	return f.results[retailer]
}

func (f *fakeRetailClient) Retailers() []string { return f.retailers }

func TestExtractSearchKeywords(t *testing.T) {
	cases := []struct {
		name    string
		signal  domain.CulturalSignal
		mapping domain.TasteMapping
		want    []string
	}{
		{
			name: "empty",
			want: []string{},
		},
		{
			name: "first_seen_order_preserved",
			signal: domain.CulturalSignal{
				AestheticKeywords: []string{"cozy", "warm"},
				StylePreferences:  []string{"scandinavian"},
				MoodDescriptors:   []string{"calm"},
			},
			mapping: domain.TasteMapping{
				ProductCategories: []string{"Furniture"},
			},
			want: []string{"cozy", "warm", "scandinavian", "calm", "furniture"},
		},
		{
			name: "duplicates_collapse_case_insensitively",
			signal: domain.CulturalSignal{
				AestheticKeywords: []string{"Cozy", "cozy "},
				StylePreferences:  []string{"COZY", "warm"},
			},
			want: []string{"cozy", "warm"},
		},
		{
			name: "blank_values_dropped",
			signal: domain.CulturalSignal{
				AestheticKeywords: []string{"", "  ", "vintage"},
			},
			want: []string{"vintage"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractSearchKeywords(tc.signal, tc.mapping)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ExtractSearchKeywords=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestSearchDirectQueryLeadsKeywords(t *testing.T) {
	log := testLogger(t)
	fake := &fakeRetailClient{
		queries:   map[string][]string{},
		retailers: []string{"amazon"},
		results: map[string][]domain.ProductCandidate{
			"amazon": {{ProductID: "B1", Title: "Walnut Desk Lamp", Retailer: "amazon"}},
		},
	}
	svc := NewProductService(log, fake, NewCulturalMatchScorer(), nil, nil)

	signal := domain.CulturalSignal{AestheticKeywords: []string{"cozy", "walnut"}}
	signal.Normalize()
	mapping := domain.TasteMapping{ProductCategories: []string{"Lighting"}}
	dbc := dbctx.Context{Ctx: context.Background()}

	got := svc.SearchDirect(dbc, uuid.New(), "Walnut desk lamp", signal, mapping)

	// Query terms come first; signal descriptors and mapping categories
	// follow, with cross-source duplicates collapsed.
	wantKeywords := []string{"walnut", "desk", "lamp", "cozy", "lighting"}
	if !reflect.DeepEqual(fake.queries["amazon"], wantKeywords) {
		t.Fatalf("keywords = %v, want %v", fake.queries["amazon"], wantKeywords)
	}
	if len(got) != 1 || got[0].ProductID != "B1" {
		t.Fatalf("results = %v, want the single scored candidate", got)
	}
}

func TestSearchDirectEmptyInputSkipsRetailers(t *testing.T) {
	log := testLogger(t)
	fake := &fakeRetailClient{queries: map[string][]string{}, retailers: []string{"amazon"}}
	svc := NewProductService(log, fake, NewCulturalMatchScorer(), nil, nil)

	signal := domain.CulturalSignal{}
	signal.Normalize()
	dbc := dbctx.Context{Ctx: context.Background()}

	got := svc.SearchDirect(dbc, uuid.New(), "   ", signal, domain.TasteMapping{})
	if len(got) != 0 {
		t.Fatalf("results = %v, want empty", got)
	}
	if len(fake.queries) != 0 {
		t.Fatalf("retailer queried with no keywords: %v", fake.queries)
	}
}
