package services

import (
	"math"
	"testing"

	"github.com/fesoni/tastematch-backend/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreContributions(t *testing.T) {
	scorer := NewCulturalMatchScorer()

	cases := []struct {
		name    string
		product domain.ProductCandidate
		signal  domain.CulturalSignal
		mapping domain.TasteMapping
		want    float64
	}{
		{
			name:    "no_signal_no_bonus",
			product: domain.ProductCandidate{Title: "Generic Widget"},
			want:    0.0,
		},
		{
			name:    "single_aesthetic_keyword",
			product: domain.ProductCandidate{Title: "Minimalist Desk Lamp"},
			signal: domain.CulturalSignal{
				AestheticKeywords: []string{"minimalist"},
			},
			want: 0.1,
		},
		{
			name:    "aesthetic_cap_applies",
			product: domain.ProductCandidate{Title: "cozy minimalist vintage rustic lamp"},
			signal: domain.CulturalSignal{
				AestheticKeywords: []string{"cozy", "minimalist", "vintage", "rustic"},
			},
			want: 0.2,
		},
		{
			name:    "style_and_mood_caps",
			product: domain.ProductCandidate{Title: "warm calm soft bright bold blanket"},
			signal: domain.CulturalSignal{
				StylePreferences: []string{"warm", "calm", "soft"},
				MoodDescriptors:  []string{"bright", "bold"},
			},
			// style capped at 0.1, mood 2 x 0.05 = 0.1
			want: 0.2,
		},
		{
			name: "insight_overlap",
			product: domain.ProductCandidate{
				Title: "Muji Style Storage Box",
			},
			mapping: domain.TasteMapping{
				CulturalInsights: []domain.Insight{
					{ID: "1", Name: "Muji"},
					{ID: "2", Name: "Unrelated"},
				},
			},
			want: 0.25,
		},
		{
			name: "insight_cap_at_three_matches",
			product: domain.ProductCandidate{
				Title: "alpha beta gamma delta set",
			},
			mapping: domain.TasteMapping{
				CulturalInsights: []domain.Insight{
					{ID: "1", Name: "alpha"},
					{ID: "2", Name: "beta"},
					{ID: "3", Name: "gamma"},
					{ID: "4", Name: "delta"},
				},
			},
			want: 0.6,
		},
		{
			name:    "rating_above_high_bar",
			product: domain.ProductCandidate{Title: "x", Rating: 4.6},
			want:    0.05,
		},
		{
			name:    "rating_mid_band_boundary",
			product: domain.ProductCandidate{Title: "x", Rating: 4.5},
			want:    0.03,
		},
		{
			name:    "rating_at_four_no_bonus",
			product: domain.ProductCandidate{Title: "x", Rating: 4.0},
			want:    0.0,
		},
		{
			name:    "review_volume_high",
			product: domain.ProductCandidate{Title: "x", ReviewCount: 1001},
			want:    0.02,
		},
		{
			name:    "review_volume_mid",
			product: domain.ProductCandidate{Title: "x", ReviewCount: 101},
			want:    0.01,
		},
		{
			name:    "prime_bonus",
			product: domain.ProductCandidate{Title: "x", Prime: true},
			want:    0.02,
		},
		{
			name:    "discount_capped_below_multiplier",
			product: domain.ProductCandidate{Title: "x", Price: 10, RetailPrice: 100},
			// 0.05 * 0.9 = 0.045, capped at 0.02
			want: 0.02,
		},
		{
			name:    "small_discount_under_cap",
			product: domain.ProductCandidate{Title: "x", Price: 90, RetailPrice: 100},
			// 0.05 * 0.1 = 0.005
			want: 0.005,
		},
		{
			name:    "no_discount_when_price_equal",
			product: domain.ProductCandidate{Title: "x", Price: 100, RetailPrice: 100},
			want:    0.0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, _ := scorer.Score(tc.product, tc.signal, tc.mapping)
			if !almostEqual(got, tc.want) {
				t.Fatalf("Score=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestScoreClampAndAppliedInsights(t *testing.T) {
	scorer := NewCulturalMatchScorer()

	product := domain.ProductCandidate{
		Title:       "alpha beta gamma cozy warm calm lamp",
		Rating:      4.9,
		ReviewCount: 5000,
		Prime:       true,
		Price:       50,
		RetailPrice: 100,
	}
	signal := domain.CulturalSignal{
		AestheticKeywords: []string{"cozy", "warm"},
		StylePreferences:  []string{"calm", "warm"},
		MoodDescriptors:   []string{"cozy", "calm"},
	}
	mapping := domain.TasteMapping{
		CulturalInsights: []domain.Insight{
			{ID: "1", Name: "alpha"},
			{ID: "2", Name: "beta"},
			{ID: "3", Name: "gamma"},
		},
	}

	score, applied := scorer.Score(product, signal, mapping)
	if score < 0 || score > 1 {
		t.Fatalf("score %v outside [0,1]", score)
	}
	if len(applied) != 3 {
		t.Fatalf("applied insights = %d, want 3", len(applied))
	}
	// 0.6 + 0.2 + 0.1 + 0.1 + 0.05 + 0.02 + 0.02 + 0.02 clamps to 1.0.
	if !almostEqual(score, 1.0) {
		t.Fatalf("score=%v, want 1.0", score)
	}
}

func TestRankOrderingAndTruncation(t *testing.T) {
	scorer := NewCulturalMatchScorer()
	signal := domain.CulturalSignal{AestheticKeywords: []string{"cozy"}}

	products := make([]domain.ProductCandidate, 0, 15)
	// One strong match, one weak match, then filler.
	products = append(products, domain.ProductCandidate{ProductID: "weak", Title: "plain mug", Rating: 4.2})
	products = append(products, domain.ProductCandidate{ProductID: "strong", Title: "cozy blanket"})
	for i := 0; i < 13; i++ {
		products = append(products, domain.ProductCandidate{ProductID: "filler", Title: "widget"})
	}

	ranked := scorer.Rank(products, signal, domain.TasteMapping{})
	if len(ranked) != MaxRankedProducts {
		t.Fatalf("ranked length = %d, want %d", len(ranked), MaxRankedProducts)
	}
	if ranked[0].ProductID != "strong" {
		t.Fatalf("top product = %q, want strong", ranked[0].ProductID)
	}
	if ranked[1].ProductID != "weak" {
		t.Fatalf("second product = %q, want weak", ranked[1].ProductID)
	}
}

func TestRankStableOnTies(t *testing.T) {
	scorer := NewCulturalMatchScorer()
	products := []domain.ProductCandidate{
		{ProductID: "first", Title: "widget"},
		{ProductID: "second", Title: "widget"},
		{ProductID: "third", Title: "widget"},
	}

	ranked := scorer.Rank(products, domain.CulturalSignal{}, domain.TasteMapping{})
	if ranked[0].ProductID != "first" || ranked[1].ProductID != "second" || ranked[2].ProductID != "third" {
		t.Fatalf("tie order changed: %v %v %v", ranked[0].ProductID, ranked[1].ProductID, ranked[2].ProductID)
	}
}
