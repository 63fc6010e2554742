package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fesoni/tastematch-backend/internal/pkg/envutil"
	"github.com/fesoni/tastematch-backend/internal/pkg/httpx"
	"github.com/fesoni/tastematch-backend/internal/pkg/logger"
)

// Client is the text-understanding/generation provider used by the
// signal extractor and the conversational reply step.
type Client interface {
	// GenerateText returns plain model output for a prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)

	// GenerateJSON asks for a strict JSON response and returns the raw
	// bytes after stripping any markdown fencing the model added.
	GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := envutil.String("GEMINI_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	return &client{
		log:        log.With("client", "GeminiClient"),
		baseURL:    strings.TrimRight(envutil.String("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/"),
		apiKey:     apiKey,
		model:      envutil.String("GEMINI_MODEL", "gemini-2.0-flash"),
		httpClient: &http.Client{Timeout: envutil.Seconds("GEMINI_TIMEOUT_SECONDS", 15)},
		maxRetries: envutil.Int("GEMINI_MAX_RETRIES", 2),
	}, nil
}

type geminiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *geminiHTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func (e *geminiHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *client) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	if jsonMode {
		req.GenerationConfig = &generationConfig{ResponseMIMEType: "application/json"}
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)

	var out generateResponse
	if err := c.do(ctx, http.MethodPost, path, req, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

func (c *client) GenerateText(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, prompt, false)
}

func (c *client) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(StripFences(text)), nil
}

// StripFences removes the markdown code fencing some models wrap JSON
// output in even when asked for a bare object.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimPrefix(s, "json")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
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
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

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
		return resp, raw, &geminiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body any, out any) error {
	backoff := 1 * time.Second

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
				return fmt.Errorf("gemini decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Gemini request retrying",
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
