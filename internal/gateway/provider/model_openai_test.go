package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chatReply(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

func TestCallWithPayloadSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(chatReply(`{"items": []}`))
	}))
	defer srv.Close()

	c := &OpenAIChatClient{BaseURL: srv.URL, APIKey: "sk-test", Model: "gpt-4o-mini"}
	out, err := c.CallWithPayload(context.Background(), ChatPayload{System: "sys", User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, `{"items": []}`, out)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])

	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestCallWithPayloadMultimodalMessage(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(chatReply("ok"))
	}))
	defer srv.Close()

	c := &OpenAIChatClient{BaseURL: srv.URL, Model: "gpt-4o"}
	_, err := c.CallWithPayload(context.Background(), ChatPayload{
		User:   "describe this",
		Images: []ImagePayload{{DataURI: "data:image/jpeg;base64,AAAA"}},
	})
	require.NoError(t, err)

	messages := gotBody["messages"].([]any)
	user := messages[len(messages)-1].(map[string]any)
	parts := user["content"].([]any)
	require.Len(t, parts, 2)
	imagePart := parts[1].(map[string]any)
	assert.Equal(t, "image_url", imagePart["type"])
}

func TestCallWithPayloadRetriesOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "rate limited"}})
			return
		}
		json.NewEncoder(w).Encode(chatReply("recovered"))
	}))
	defer srv.Close()

	c := &OpenAIChatClient{BaseURL: srv.URL, Model: "m", MaxRetries: 2, Timeout: 5 * time.Second}
	out, err := c.CallWithPayload(context.Background(), ChatPayload{User: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCallWithPayloadGivesUpOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad key"}})
	}))
	defer srv.Close()

	c := &OpenAIChatClient{BaseURL: srv.URL, Model: "m"}
	_, err := c.CallWithPayload(context.Background(), ChatPayload{User: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad key")
	// 非重试型状态码立即失败
	assert.Equal(t, int32(1), calls.Load())
}

func TestCallWithPayloadDoesNotMutateClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(chatReply("ok"))
	}))
	defer srv.Close()

	// 零值超时/重试靠局部默认值生效，receiver 本身保持不变，
	// 多个并发阶段共享同一个客户端时不会产生写竞争。
	c := &OpenAIChatClient{BaseURL: srv.URL, Model: "m"}
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.CallWithPayload(context.Background(), ChatPayload{User: "hi"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, time.Duration(0), c.Timeout)
	assert.Equal(t, 0, c.MaxRetries)
}

func TestEndpointNormalization(t *testing.T) {
	cases := map[string]string{
		"https://api.openai.com/v1":                  "https://api.openai.com/v1/chat/completions",
		"https://api.openai.com/v1/":                 "https://api.openai.com/v1/chat/completions",
		"https://api.openai.com/v1/chat/completions": "https://api.openai.com/v1/chat/completions",
		"": "https://api.openai.com/v1/chat/completions",
	}
	for base, want := range cases {
		c := &OpenAIChatClient{BaseURL: base}
		assert.Equal(t, want, c.endpoint())
	}
}

func TestBuildProvidersFromConfigSkipsDisabled(t *testing.T) {
	providers := BuildProvidersFromConfig([]ModelCfg{
		{ID: "on", Enabled: true, Model: "m1", SupportsVision: true},
		{ID: "off", Enabled: false, Model: "m2"},
	}, time.Minute)
	require.Len(t, providers, 1)
	assert.Equal(t, "on", providers[0].ID())
	assert.True(t, providers[0].SupportsVision())
}
