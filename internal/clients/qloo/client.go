package qloo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fesoni/tastematch-backend/internal/clients/redis"
	"github.com/fesoni/tastematch-backend/internal/domain"
	"github.com/fesoni/tastematch-backend/internal/pkg/envutil"
	"github.com/fesoni/tastematch-backend/internal/pkg/httpx"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

// InsightLimit is the provider-defined cap on insights per request.
const InsightLimit = 20

const cacheTTL = time.Hour

// Client talks to the taste-graph provider. Search operations follow
// the soft-degrade policy: transport errors and non-2xx responses are
// logged and yield empty results, never an error the pipeline has to
// handle.
type Client interface {
	SearchEntities(ctx context.Context, query string, entityType string) []domain.Entity
	SearchTags(ctx context.Context, query string) []domain.Tag
	GetInsights(ctx context.Context, entityIDs []string, tagIDs []string) InsightsResult
	GetTrends(ctx context.Context, tags []string) TrendsResult
}

type InsightsResult struct {
	Success  bool             `json:"success"`
	Insights []domain.Insight `json:"insights"`
	Total    int              `json:"total"`
}

type TrendsResult struct {
	Success bool           `json:"success"`
	Trends  []domain.Trend `json:"trends"`
	Total   int            `json:"total"`
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	cache      redis.Cache
}

// NewClient builds the taste-graph client. cache may be nil.
func NewClient(log *logger.Logger, cache redis.Cache) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := envutil.String("QLOO_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("missing QLOO_API_KEY")
	}

	return &client{
		log:        log.With("client", "QlooClient"),
		baseURL:    strings.TrimRight(envutil.String("QLOO_BASE_URL", "https://hackathon.api.qloo.com"), "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: envutil.Seconds("QLOO_TIMEOUT_SECONDS", 12)},
		maxRetries: envutil.Int("QLOO_MAX_RETRIES", 1),
		cache:      cache,
	}, nil
}

type qlooHTTPError struct {
	StatusCode int
	Body       string
}

func (e *qlooHTTPError) Error() string {
	return fmt.Sprintf("qloo http %d: %s", e.StatusCode, e.Body)
}

func (e *qlooHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type entitySearchResponse struct {
	Results []struct {
		EntityID string `json:"entity_id"`
		Name     string `json:"name"`
		Types    string `json:"type"`
	} `json:"results"`
}

type tagSearchResponse struct {
	Results struct {
		Tags []struct {
			TagID string `json:"tag_id"`
			Name  string `json:"name"`
			Type  string `json:"type"`
		} `json:"tags"`
	} `json:"results"`
}

type insightsResponse struct {
	Results struct {
		Entities []struct {
			EntityID   string         `json:"entity_id"`
			Name       string         `json:"name"`
			Type       string         `json:"type"`
			Properties map[string]any `json:"properties"`
		} `json:"entities"`
	} `json:"results"`
	Total int `json:"total"`
}

type trendsResponse struct {
	Results struct {
		Trends []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"trends"`
	} `json:"results"`
	Total int `json:"total"`
}

func (c *client) SearchEntities(ctx context.Context, query string, entityType string) []domain.Entity {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Entity{}
	}

	cacheKey := "qloo:entity:" + entityType + ":" + strings.ToLower(query)
	var out entitySearchResponse
	if !c.cached(ctx, cacheKey, &out) {
		q := url.Values{}
		q.Set("query", query)
		if entityType != "" {
			q.Set("types", "urn:entity:"+entityType)
		}
		if err := c.do(ctx, http.MethodGet, "/search?"+q.Encode(), nil, &out); err != nil {
			c.log.Warn("Entity search failed", "query", query, "error", err)
			return []domain.Entity{}
		}
		c.store(ctx, cacheKey, &out)
	}

	entities := make([]domain.Entity, 0, len(out.Results))
	for _, r := range out.Results {
		entities = append(entities, domain.Entity{ID: r.EntityID, Name: r.Name, Type: r.Types})
	}
	return entities
}

func (c *client) SearchTags(ctx context.Context, query string) []domain.Tag {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.Tag{}
	}

	cacheKey := "qloo:tag:" + strings.ToLower(query)
	var out tagSearchResponse
	if !c.cached(ctx, cacheKey, &out) {
		q := url.Values{}
		q.Set("filter.query", query)
		if err := c.do(ctx, http.MethodGet, "/v2/tags?"+q.Encode(), nil, &out); err != nil {
			c.log.Warn("Tag search failed", "query", query, "error", err)
			return []domain.Tag{}
		}
		c.store(ctx, cacheKey, &out)
	}

	tags := make([]domain.Tag, 0, len(out.Results.Tags))
	for _, r := range out.Results.Tags {
		tags = append(tags, domain.Tag{ID: r.TagID, Name: r.Name, Type: r.Type})
	}
	return tags
}

func (c *client) GetInsights(ctx context.Context, entityIDs []string, tagIDs []string) InsightsResult {
	q := url.Values{}
	q.Set("filter.type", "urn:entity:brand")
	if len(entityIDs) > 0 {
		q.Set("signal.interests.entities", strings.Join(entityIDs, ","))
	}
	if len(tagIDs) > 0 {
		q.Set("signal.interests.tags", strings.Join(tagIDs, ","))
	}
	q.Set("take", strconv.Itoa(InsightLimit))

	var out insightsResponse
	if err := c.do(ctx, http.MethodGet, "/v2/insights?"+q.Encode(), nil, &out); err != nil {
		c.log.Warn("Insights fetch failed", "error", err)
		return InsightsResult{Success: false, Insights: []domain.Insight{}}
	}

	insights := make([]domain.Insight, 0, len(out.Results.Entities))
	for _, r := range out.Results.Entities {
		if len(insights) >= InsightLimit {
			break
		}
		insights = append(insights, domain.Insight{
			ID:         r.EntityID,
			Name:       r.Name,
			Type:       r.Type,
			Properties: r.Properties,
		})
	}
	return InsightsResult{Success: true, Insights: insights, Total: out.Total}
}

func (c *client) GetTrends(ctx context.Context, tags []string) TrendsResult {
	q := url.Values{}
	if len(tags) > 0 {
		q.Set("tags", strings.Join(tags, ","))
	}

	var out trendsResponse
	if err := c.do(ctx, http.MethodGet, "/v2/trends?"+q.Encode(), nil, &out); err != nil {
		c.log.Warn("Trends fetch failed", "error", err)
		return TrendsResult{Success: false, Trends: []domain.Trend{}}
	}

	trends := make([]domain.Trend, 0, len(out.Results.Trends))
	for _, r := range out.Results.Trends {
		trends = append(trends, domain.Trend{ID: r.ID, Name: r.Name, Type: r.Type})
	}
	return TrendsResult{Success: true, Trends: trends, Total: out.Total}
}

func (c *client) cached(ctx context.Context, key string, out any) bool {
	if c.cache == nil {
		return false
	}
	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

func (c *client) store(ctx context.Context, key string, value any) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.cache.Set(ctx, key, raw, cacheTTL)
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

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
		return resp, raw, &qlooHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 500 * time.Millisecond

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("qloo decode error: %w", uErr)
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

		c.log.Warn("Qloo request retrying",
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
