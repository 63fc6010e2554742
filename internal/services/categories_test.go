package services

import (
	"reflect"
	"testing"

	"github.com/fesoni/tastematch-backend/internal/domain"
)

func TestMapKeywordsToCategories(t *testing.T) {
	cases := []struct {
		name     string
		keywords []string
		want     []string
	}{
		{
			name:     "empty_input",
			keywords: nil,
			want:     []string{},
		},
		{
			name:     "no_match",
			keywords: []string{"quantum", "entropy"},
			want:     []string{},
		},
		{
			name:     "exact_key",
			keywords: []string{"minimalist"},
			want:     []string{"Clothing", "Electronics", "Home & Garden"},
		},
		{
			name:     "substring_match",
			keywords: []string{"dark academia aesthetic"},
			want:     []string{"Books", "Clothing", "Home Decor"},
		},
		{
			name:     "case_insensitive",
			keywords: []string{"Scandinavian Design"},
			want:     []string{"Furniture", "Home & Garden", "Lighting"},
		},
		{
			name:     "multiple_keys_union",
			keywords: []string{"cozy", "vintage"},
			want:     []string{"Bedding", "Books", "Clothing", "Home & Garden", "Home Decor", "Lighting"},
		},
		{
			name:     "blank_keywords_skipped",
			keywords: []string{"", "  ", "cozy"},
			want:     []string{"Bedding", "Home & Garden", "Lighting"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapKeywordsToCategories(tc.keywords)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("MapKeywordsToCategories(%v)=%v, want %v", tc.keywords, got, tc.want)
			}
		})
	}
}

func TestInferCategoriesFromInsights(t *testing.T) {
	cases := []struct {
		name     string
		insights []domain.Insight
		want     []string
	}{
		{
			name:     "empty",
			insights: nil,
			want:     []string{},
		},
		{
			name: "fashion_family",
			insights: []domain.Insight{
				{Name: "Acme Streetwear Fashion House"},
			},
			want: []string{"Accessories", "Clothing", "Shoes"},
		},
		{
			name: "multiple_families_one_insight",
			insights: []domain.Insight{
				{Name: "Nordic Home Fashion"},
			},
			want: []string{"Accessories", "Clothing", "Furniture", "Home & Garden", "Home Decor", "Shoes"},
		},
		{
			name: "tech_and_food",
			insights: []domain.Insight{
				{Name: "GadgetCo Electronics"},
				{Name: "Third Wave Coffee Roasters"},
			},
			want: []string{"Accessories", "Electronics", "Food & Beverage", "Kitchen"},
		},
		{
			name: "unmatched_names_ignored",
			insights: []domain.Insight{
				{Name: "Unrelated Brand"},
				{Name: ""},
			},
			want: []string{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InferCategoriesFromInsights(tc.insights)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("InferCategoriesFromInsights(...)=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestUnionCategories(t *testing.T) {
	got := UnionCategories(
		[]string{"Books", "Clothing"},
		[]string{"Clothing", "", "  ", "Beauty"},
	)
	want := []string{"Beauty", "Books", "Clothing"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("UnionCategories=%v, want %v", got, want)
	}
}
