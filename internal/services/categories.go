package services

import (
	"sort"
	"strings"

	"github.com/fesoni/tastematch-backend/internal/domain"
)

// categoryTable maps aesthetic/style keyword fragments to product
// category labels. Matching is substring based: a keyword matches a
// table key when the key appears anywhere inside the lowercased
// keyword, and every match contributes its categories.
var categoryTable = map[string][]string{
	"studio ghibli":  {"Home & Garden", "Books", "Clothing"},
	"dark academia":  {"Books", "Clothing", "Home Decor"},
	"minimalist":     {"Home & Garden", "Electronics", "Clothing"},
	"vintage":        {"Clothing", "Home Decor", "Books"},
	"bohemian":       {"Home & Garden", "Clothing", "Jewelry"},
	"scandinavian":   {"Home & Garden", "Furniture", "Lighting"},
	"japanese":       {"Home & Garden", "Books", "Electronics"},
	"korean":         {"Beauty", "Clothing", "Books"},
	"indie":          {"Music", "Books", "Clothing"},
	"cozy":           {"Home & Garden", "Bedding", "Lighting"},
	"streetwear":     {"Clothing", "Shoes", "Accessories"},
	"wellness":       {"Beauty", "Health", "Sports & Outdoors"},
	"mediterranean":  {"Home & Garden", "Kitchen", "Food & Beverage"},
	"cottagecore":    {"Home & Garden", "Clothing", "Crafts"},
	"industrial":     {"Furniture", "Lighting", "Home Decor"},
	"retro":          {"Clothing", "Electronics", "Home Decor"},
	"gothic":         {"Clothing", "Jewelry", "Home Decor"},
	"preppy":         {"Clothing", "Shoes", "Accessories"},
	"rustic":         {"Home & Garden", "Furniture", "Kitchen"},
	"tropical":       {"Home & Garden", "Clothing", "Outdoor"},
}

// insightFamilies maps domain indicator terms found in insight names to
// a fixed category bundle per family. An insight may match several
// families at once.
var insightFamilies = []struct {
	terms      []string
	categories []string
}{
	{
		terms:      []string{"fashion", "apparel", "clothing", "wear", "style"},
		categories: []string{"Clothing", "Shoes", "Accessories"},
	},
	{
		terms:      []string{"home", "furniture", "decor", "interior", "living"},
		categories: []string{"Home & Garden", "Furniture", "Home Decor"},
	},
	{
		terms:      []string{"beauty", "cosmetic", "skincare", "makeup"},
		categories: []string{"Beauty", "Health"},
	},
	{
		terms:      []string{"tech", "electronic", "gadget", "device"},
		categories: []string{"Electronics", "Accessories"},
	},
	{
		terms:      []string{"food", "drink", "coffee", "tea", "culinary"},
		categories: []string{"Food & Beverage", "Kitchen"},
	},
}

// MapKeywordsToCategories resolves a keyword set against the fixed
// category table. Pure function, no I/O.
func MapKeywordsToCategories(keywords []string) []string {
	seen := map[string]bool{}
	for _, kw := range keywords {
		lower := strings.ToLower(strings.TrimSpace(kw))
		if lower == "" {
			continue
		}
		for key, cats := range categoryTable {
			if strings.Contains(lower, key) {
				for _, c := range cats {
					seen[c] = true
				}
			}
		}
	}
	return sortedKeys(seen)
}

// InferCategoriesFromInsights scans each insight's name for domain
// indicator terms and collects the matched family bundles.
func InferCategoriesFromInsights(insights []domain.Insight) []string {
	seen := map[string]bool{}
	for _, in := range insights {
		name := strings.ToLower(in.Name)
		if name == "" {
			continue
		}
		for _, fam := range insightFamilies {
			for _, term := range fam.terms {
				if strings.Contains(name, term) {
					for _, c := range fam.categories {
						seen[c] = true
					}
					break
				}
			}
		}
	}
	return sortedKeys(seen)
}

// UnionCategories merges category lists, de-duplicated, sorted for a
// deterministic result.
func UnionCategories(lists ...[]string) []string {
	seen := map[string]bool{}
	for _, list := range lists {
		for _, c := range list {
			c = strings.TrimSpace(c)
			if c != "" {
				seen[c] = true
			}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
