package retail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/envutil"
	"github.com/fesoni/tastematch-backend/internal/pkg/httpx"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

// MaxSearchKeywords caps how many keywords are joined into one retailer
// query string.
const MaxSearchKeywords = 8

const (
	RetailerAmazon  = "amazon"
	RetailerWalmart = "walmart"
)

// Client searches retailer catalogs. Search never returns an error:
// a failed retailer call is logged and yields an empty slice so one
// retailer outage cannot sink a recommendation run.
type Client interface {
	Search(ctx context.Context, retailer string, keywords []string) []domain.ProductCandidate
	Retailers() []string
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	retailers  []string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := envutil.String("RETAIL_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("missing RETAIL_API_KEY")
	}

	retailers := []string{RetailerAmazon}
	if v := envutil.String("RETAIL_RETAILERS", ""); v != "" {
		retailers = retailers[:0]
		for _, r := range strings.Split(v, ",") {
			r = strings.ToLower(strings.TrimSpace(r))
			if r != "" {
				retailers = append(retailers, r)
			}
		}
		if len(retailers) == 0 {
			retailers = []string{RetailerAmazon}
		}
	}

	return &client{
		log:        log.With("client", "RetailClient"),
		baseURL:    strings.TrimRight(envutil.String("RETAIL_BASE_URL", "https://api.rainforestapi.com"), "/"),
		apiKey:     apiKey,
		retailers:  retailers,
		httpClient: &http.Client{Timeout: envutil.Seconds("RETAIL_TIMEOUT_SECONDS", 20)},
		maxRetries: envutil.Int("RETAIL_MAX_RETRIES", 1),
	}, nil
}

func (c *client) Retailers() []string {
	out := make([]string, len(c.retailers))
	copy(out, c.retailers)
	return out
}

type retailHTTPError struct {
	StatusCode int
	Body       string
}

func (e *retailHTTPError) Error() string {
	return fmt.Sprintf("retail http %d: %s", e.StatusCode, e.Body)
}

func (e *retailHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type searchResponse struct {
	SearchResults []map[string]any `json:"search_results"`
	Results       []map[string]any `json:"results"`
	Products      []map[string]any `json:"products"`
}

func (c *client) Search(ctx context.Context, retailer string, keywords []string) []domain.ProductCandidate {
	query := BuildQuery(keywords)
	if query == "" {
		return []domain.ProductCandidate{}
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("type", "search")
	q.Set("search_term", query)
	q.Set("retailer", retailer)

	var out searchResponse
	if err := c.do(ctx, "/request?"+q.Encode(), &out); err != nil {
		c.log.Warn("Product search failed", "retailer", retailer, "query", query, "error", err)
		return []domain.ProductCandidate{}
	}

	rows := out.SearchResults
	if len(rows) == 0 {
		rows = out.Results
	}
	if len(rows) == 0 {
		rows = out.Products
	}

	candidates := make([]domain.ProductCandidate, 0, len(rows))
	for _, raw := range rows {
		cand := Normalize(raw, retailer)
		if cand.ProductID == "" && cand.Title == "" {
			continue
		}
		candidates = append(candidates, cand)
	}
	return candidates
}

// BuildQuery joins up to MaxSearchKeywords keywords into one search
// string, skipping blanks.
func BuildQuery(keywords []string) string {
	picked := make([]string, 0, MaxSearchKeywords)
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		picked = append(picked, kw)
		if len(picked) == MaxSearchKeywords {
			break
		}
	}
	return strings.Join(picked, " ")
}

// Normalize maps one raw retailer row onto the shared candidate record.
// Retailers disagree on field names for the same attribute, so each
// field checks the known aliases in order.
func Normalize(raw map[string]any, retailer string) domain.ProductCandidate {
	cand := domain.ProductCandidate{
		ProductID:   stringField(raw, "asin", "product_id", "id", "itemId"),
		Title:       stringField(raw, "title", "product_title", "name"),
		URL:         stringField(raw, "link", "url", "product_url"),
		Image:       stringField(raw, "image", "thumbnail", "image_url"),
		Price:       priceField(raw, "price", "product_price", "current_price"),
		RetailPrice: priceField(raw, "retail_price", "list_price", "original_price"),
		Rating:      ratingField(raw, "rating", "product_star_rating", "stars"),
		ReviewCount: intField(raw, "ratings_total", "review_count", "reviews", "num_reviews"),
		Retailer:    retailer,
		Prime:       boolField(raw, "is_prime", "prime"),
		Raw:         raw,
	}
	return cand
}

func stringField(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func priceField(raw map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t
		case string:
			if p, ok := ParsePrice(t); ok {
				return p
			}
		case map[string]any:
			// Some retailers nest the amount: {"value": 24.99, "currency": "USD"}.
			if inner, ok := t["value"]; ok {
				if f, ok := inner.(float64); ok {
					return f
				}
			}
			if inner, ok := t["raw"]; ok {
				if s, ok := inner.(string); ok {
					if p, ok := ParsePrice(s); ok {
						return p
					}
				}
			}
		}
	}
	return 0
}

// ParsePrice reads a display price like "$1,299.99" into a float.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return p, true
}

func ratingField(raw map[string]any, keys ...string) float64 {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t
		case string:
			return ParseRating(t)
		}
	}
	return 0
}

// ParseRating reads a rating that is either a bare number or display
// text like "4.3 out of 5 stars". Unparseable input defaults to 0.0.
func ParseRating(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	fields := strings.Fields(s)
	r, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return r
}

func intField(raw map[string]any, keys ...string) int {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t)
		case string:
			cleaned := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
			if n, err := strconv.Atoi(cleaned); err == nil {
				return n
			}
		}
	}
	return 0
}

func boolField(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if b, ok := v.(bool); ok {
				return b
			}
		}
	}
	return false
}

func (c *client) doOnce(ctx context.Context, path string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &retailHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, out any) error {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("retail decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 5*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Retail request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}
