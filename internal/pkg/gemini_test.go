package pkg

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONFromText(t *testing.T) {
	var out ModerationResult

	require.NoError(t, parseJSONFromText(`{"safe":true,"reason":null}`, &out))
	assert.True(t, out.Safe)

	// 模型在JSON前后带解释文字也能解析
	text := "Sure! Here is the verdict:\n```json\n{\"safe\":false,\"reason\":\"violence\"}\n```\nHope that helps."
	require.NoError(t, parseJSONFromText(text, &out))
	assert.False(t, out.Safe)
	require.NotNil(t, out.Reason)
	assert.Equal(t, "violence", *out.Reason)

	err := parseJSONFromText("no json at all", &out)
	assert.ErrorIs(t, err, ErrGeminiNoJSON)

	err = parseJSONFromText("} backwards {", &out)
	assert.ErrorIs(t, err, ErrGeminiNoJSON)
}

func geminiStub(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NotEmpty(t, r.URL.Query().Get("key"))

		resp := map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"parts": []map[string]any{{"text": text}},
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestModerateActivity(t *testing.T) {
	srv := geminiStub(t, `{"safe":false,"reason":"gang activity"}`)
	defer srv.Close()

	c := NewGeminiClientWithURL("test-key", srv.URL)
	out, err := c.ModerateActivity(context.Background(), "Turf war", "bring your crew")
	require.NoError(t, err)
	assert.False(t, out.Safe)
	require.NotNil(t, out.Reason)
	assert.Equal(t, "gang activity", *out.Reason)
}

func TestMagicFill(t *testing.T) {
	srv := geminiStub(t, `{"title":"Padel tomorrow","description":"doubles","category":"sports","participantLimit":4,"date":"2026-09-01","time":"18:00"}`)
	defer srv.Close()

	c := NewGeminiClientWithURL("test-key", srv.URL)
	out, err := c.MagicFill(context.Background(), "padel tomorrow 6pm, need 4")
	require.NoError(t, err)
	assert.Equal(t, "Padel tomorrow", out.Title)
	assert.Equal(t, 4, out.ParticipantLimit)
	assert.Equal(t, "18:00", out.Time)
}

func TestGeminiMissingKey(t *testing.T) {
	c := NewGeminiClient("")
	_, err := c.ModerateActivity(context.Background(), "a", "b")
	assert.ErrorIs(t, err, ErrGeminiNoKey)
}

func TestGeminiEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClientWithURL("test-key", srv.URL)
	_, err := c.SearchActivities(context.Background(), "padel", nil)
	assert.ErrorIs(t, err, ErrGeminiBadResponse)
}

func TestGeminiUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGeminiClientWithURL("test-key", srv.URL)
	_, err := c.ModerateActivity(context.Background(), "a", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
