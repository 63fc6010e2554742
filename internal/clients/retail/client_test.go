package retail

import (
	"testing"
)

func TestParseRating(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want float64
	}{
		{name: "bare_number", in: "4.3", want: 4.3},
		{name: "out_of_five_stars", in: "4.3 out of 5 stars", want: 4.3},
		{name: "integer_stars", in: "5 out of 5 stars", want: 5},
		{name: "leading_whitespace", in: "  4.7 out of 5 stars", want: 4.7},
		{name: "empty", in: "", want: 0},
		{name: "garbage", in: "five stars", want: 0},
		{name: "trailing_text_only", in: "out of 5 stars", want: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ParseRating(tc.in)
			if got != tc.want {
				t.Fatalf("ParseRating(%q)=%v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		want   float64
		wantOK bool
	}{
		{name: "plain", in: "24.99", want: 24.99, wantOK: true},
		{name: "dollar_sign", in: "$24.99", want: 24.99, wantOK: true},
		{name: "thousands_separator", in: "$1,299.99", want: 1299.99, wantOK: true},
		{name: "euro", in: "€45.50", want: 45.5, wantOK: true},
		{name: "empty", in: "", wantOK: false},
		{name: "words", in: "see price in cart", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParsePrice(tc.in)
			if ok != tc.wantOK || got != tc.want {
				t.Fatalf("ParsePrice(%q)=(%v,%v), want (%v,%v)", tc.in, got, ok, tc.want, tc.wantOK)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	cases := []struct {
		name     string
		keywords []string
		want     string
	}{
		{name: "empty", keywords: nil, want: ""},
		{name: "blanks_skipped", keywords: []string{"", " ", "cozy"}, want: "cozy"},
		{
			name:     "cap_at_eight",
			keywords: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"},
			want:     "a b c d e f g h",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := BuildQuery(tc.keywords)
			if got != tc.want {
				t.Fatalf("BuildQuery(%v)=%q, want %q", tc.keywords, got, tc.want)
			}
		})
	}
}

func TestNormalizeFieldAliases(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want struct {
			id      string
			title   string
			price   float64
			rating  float64
			reviews int
			prime   bool
		}
	}{
		{
			name: "amazon_shape",
			raw: map[string]any{
				"asin":          "B08N5WRWNW",
				"title":         "Cozy Throw Blanket",
				"price":         29.99,
				"rating":        4.5,
				"ratings_total": float64(1234),
				"is_prime":      true,
			},
			want: struct {
				id      string
				title   string
				price   float64
				rating  float64
				reviews int
				prime   bool
			}{"B08N5WRWNW", "Cozy Throw Blanket", 29.99, 4.5, 1234, true},
		},
		{
			name: "walmart_shape",
			raw: map[string]any{
				"product_id":   "12345678",
				"name":         "Bohemian Tapestry",
				"price":        "$24.99",
				"rating":       "4.2 out of 5 stars",
				"review_count": float64(890),
			},
			want: struct {
				id      string
				title   string
				price   float64
				rating  float64
				reviews int
				prime   bool
			}{"12345678", "Bohemian Tapestry", 24.99, 4.2, 890, false},
		},
		{
			name: "nested_price_object",
			raw: map[string]any{
				"id":    "x1",
				"title": "Lamp",
				"price": map[string]any{"value": 45.99, "currency": "USD"},
			},
			want: struct {
				id      string
				title   string
				price   float64
				rating  float64
				reviews int
				prime   bool
			}{"x1", "Lamp", 45.99, 0, 0, false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.raw, "amazon")
			if got.ProductID != tc.want.id {
				t.Fatalf("ProductID=%q, want %q", got.ProductID, tc.want.id)
			}
			if got.Title != tc.want.title {
				t.Fatalf("Title=%q, want %q", got.Title, tc.want.title)
			}
			if got.Price != tc.want.price {
				t.Fatalf("Price=%v, want %v", got.Price, tc.want.price)
			}
			if got.Rating != tc.want.rating {
				t.Fatalf("Rating=%v, want %v", got.Rating, tc.want.rating)
			}
			if got.ReviewCount != tc.want.reviews {
				t.Fatalf("ReviewCount=%v, want %v", got.ReviewCount, tc.want.reviews)
			}
			if got.Prime != tc.want.prime {
				t.Fatalf("Prime=%v, want %v", got.Prime, tc.want.prime)
			}
			if got.Retailer != "amazon" {
				t.Fatalf("Retailer=%q, want amazon", got.Retailer)
			}
		})
	}
}
