package pkg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

var (
	ErrGeminiNoKey       = errors.New("gemini api key missing")
	ErrGeminiBadResponse = errors.New("gemini returned an unexpected response structure")
	ErrGeminiNoJSON      = errors.New("ai response did not contain valid json")
)

type GeminiClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		baseURL: defaultGeminiURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewGeminiClientWithURL 测试用，可指向本地mock
func NewGeminiClientWithURL(apiKey, baseURL string) *GeminiClient {
	c := NewGeminiClient(apiKey)
	c.baseURL = baseURL
	return c
}

type ModerationResult struct {
	Safe   bool    `json:"safe"`
	Reason *string `json:"reason"`
}

type MagicFillResult struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Category         string `json:"category"`
	ParticipantLimit int    `json:"participantLimit"`
	Date             string `json:"date"`
	Time             string `json:"time"`
}

type SearchResult struct {
	Matches    []string `json:"matches"`
	Suggestion *string  `json:"suggestion"`
}

type SearchActivity struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// ModerateActivity 内容安全审查，服务不可用时视为不通过（fail-closed 由调用方保证）
func (c *GeminiClient) ModerateActivity(ctx context.Context, title, description string) (*ModerationResult, error) {
	prompt := strings.Join([]string{
		"Evaluate safety for this activity and return strict JSON only.",
		"Disallow: nudity, violence, hate speech, political protest mobilization, bullying, criminal activity, gang activity, drugs, alcohol.",
		fmt.Sprintf("Title: %s", title),
		fmt.Sprintf("Description: %s", description),
		`Return: {"safe": boolean, "reason": string | null}`,
	}, "\n")

	var out ModerationResult
	if err := c.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MagicFill 自然语言解析活动表单
func (c *GeminiClient) MagicFill(ctx context.Context, input string) (*MagicFillResult, error) {
	prompt := strings.Join([]string{
		"Parse the activity plan and return strict JSON only.",
		fmt.Sprintf("Input: %s", input),
		"JSON shape:",
		`{"title":"string","description":"string","category":"string","participantLimit":number,"date":"YYYY-MM-DD","time":"HH:MM"}`,
		"Rules:",
		"- participantLimit must be between 1 and 100.",
		"- if missing date/time, return empty string for those fields.",
		"- keep title concise (<= 80 chars).",
	}, "\n")

	var out MagicFillResult
	if err := c.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchActivities 语义搜索，仅允许返回给定活动ID
func (c *GeminiClient) SearchActivities(ctx context.Context, query string, activities []SearchActivity) (*SearchResult, error) {
	acts, _ := json.Marshal(activities)
	prompt := strings.Join([]string{
		"You are an activity recommendation engine.",
		fmt.Sprintf("User query: %s", query),
		fmt.Sprintf("Activities: %s", acts),
		"Return strict JSON only with shape:",
		`{"matches": string[], "suggestion": string | null}`,
		"Rules:",
		"- matches should be IDs from the provided activities only.",
		"- if confidence is low, return empty matches and suggestion text.",
		"- keep suggestion under 120 chars.",
	}, "\n")

	var out SearchResult
	if err := c.generateJSON(ctx, prompt, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) generateJSON(ctx context.Context, prompt string, out any) error {
	if c.apiKey == "" {
		return ErrGeminiNoKey
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{
			Temperature:      0.2,
			ResponseMimeType: "application/json",
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s?key=%s", c.baseURL, c.apiKey), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gemini api request failed: %d %s", resp.StatusCode, string(raw))
	}

	var gr geminiResponse
	if err := json.Unmarshal(raw, &gr); err != nil {
		return err
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return ErrGeminiBadResponse
	}
	text := gr.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return ErrGeminiBadResponse
	}

	return parseJSONFromText(text, out)
}

// parseJSONFromText 截取首个 { 到最后一个 } 之间的内容再反序列化，
// 模型偶尔会在JSON前后带解释文字
func parseJSONFromText(text string, out any) error {
	trimmed := strings.TrimSpace(text)
	first := strings.Index(trimmed, "{")
	last := strings.LastIndex(trimmed, "}")
	if first == -1 || last == -1 || last <= first {
		return ErrGeminiNoJSON
	}
	return json.Unmarshal([]byte(trimmed[first:last+1]), out)
}
