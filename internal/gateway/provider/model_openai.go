package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dammed/internal/logger"
)

// 中文说明：
// OpenAIChatClient：兼容 OpenAI / DeepSeek / Qwen / Gemini(OpenAI 兼容层) 的
// 聊天补全接口（/v1/chat/completions），支持以 data URI 形式携带图像。

type OpenAIChatClient struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	// 简易重试（用于 429/5xx）：若为 0 则默认重试 2 次
	MaxRetries   int
	ExtraHeaders map[string]string
}

func (c *OpenAIChatClient) endpoint() string {
	// 规范化 BaseURL，避免用户把完整的 /chat/completions 也写进了配置导致重复路径
	url := c.BaseURL
	if url == "" {
		url = "https://api.openai.com/v1"
	}
	url = strings.TrimRight(url, "/")
	if strings.HasSuffix(url, "/chat/completions") {
		url = strings.TrimSuffix(url, "/chat/completions")
	}
	return url + "/chat/completions"
}

func buildMessages(payload ChatPayload) []map[string]any {
	messages := []map[string]any{}
	if payload.System != "" {
		messages = append(messages, map[string]any{"role": "system", "content": payload.System})
	}
	if len(payload.Images) == 0 {
		messages = append(messages, map[string]any{"role": "user", "content": payload.User})
		return messages
	}
	// 多模态消息：文本 + image_url 内容分片
	parts := []map[string]any{}
	if strings.TrimSpace(payload.User) != "" {
		parts = append(parts, map[string]any{"type": "text", "text": payload.User})
	}
	for _, img := range payload.Images {
		if strings.TrimSpace(img.DataURI) == "" {
			continue
		}
		if img.Description != "" {
			parts = append(parts, map[string]any{"type": "text", "text": img.Description})
		}
		parts = append(parts, map[string]any{
			"type":      "image_url",
			"image_url": map[string]any{"url": img.DataURI},
		})
	}
	messages = append(messages, map[string]any{"role": "user", "content": parts})
	return messages
}

func (c *OpenAIChatClient) CallWithPayload(ctx context.Context, payload ChatPayload) (string, error) {
	// 客户端会被多个并发阶段共享，默认值只落到局部变量，不写回 receiver
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	maxRetries := c.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	} else if maxRetries == 0 {
		maxRetries = 2
	}
	url := c.endpoint()

	body := map[string]any{"model": c.Model, "messages": buildMessages(payload), "temperature": 0.4}
	b, _ := json.Marshal(body)

	httpc := &http.Client{Timeout: timeout}
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// 打印请求头（仅首个尝试，debug 级别；授权头做掩码）
		if attempt == 0 {
			hlog := map[string]string{"Content-Type": "application/json"}
			if c.APIKey != "" {
				tail := c.APIKey
				if len(c.APIKey) > 4 {
					tail = c.APIKey[len(c.APIKey)-4:]
				}
				hlog["Authorization"] = fmt.Sprintf("Bearer ****%s", tail)
			}
			for k, v := range c.ExtraHeaders {
				lk := strings.ToLower(k)
				mv := v
				if strings.Contains(lk, "key") || strings.Contains(lk, "token") || strings.Contains(lk, "auth") {
					if len(v) > 4 {
						mv = "****" + v[len(v)-4:]
					} else {
						mv = "****"
					}
				}
				hlog[k] = mv
			}
			logger.Debugf("[AI] 请求: POST %s, headers=%v, bytes=%d", url, hlog, len(b))
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
		}
		for k, v := range c.ExtraHeaders {
			req.Header.Set(k, v)
		}

		resp, err := httpc.Do(req)
		if err != nil {
			lastErr = err
			break
		}
		if resp.StatusCode/100 == 2 {
			var r struct {
				Choices []struct {
					Message struct {
						Content string `json:"content"`
					} `json:"message"`
				} `json:"choices"`
			}
			derr := json.NewDecoder(resp.Body).Decode(&r)
			resp.Body.Close()
			if derr != nil {
				lastErr = derr
				break
			}
			if len(r.Choices) == 0 {
				lastErr = fmt.Errorf("empty choices")
				break
			}
			return r.Choices[0].Message.Content, nil
		}
		// 非 2xx：尝试解析错误消息
		var eresp struct {
			Error struct {
				Message string      `json:"message"`
				Type    string      `json:"type"`
				Param   string      `json:"param"`
				Code    interface{} `json:"code"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eresp)
		resp.Body.Close()
		msg := strings.TrimSpace(eresp.Error.Message)
		if msg == "" {
			msg = resp.Status
		}
		// 对 429/5xx 进行有限重试（带 Retry-After 支持）
		if retryableStatus(resp.StatusCode) && attempt < maxRetries {
			wait := time.Duration(0)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, perr := strconv.Atoi(ra); perr == nil {
					wait = time.Duration(secs) * time.Second
				}
			}
			if wait == 0 {
				// 基本指数退避：0.8s, 1.6s, 3.2s ...
				base := 800 * time.Millisecond
				wait = base << attempt
				if wait > 8*time.Second {
					wait = 8 * time.Second
				}
			}
			lastErr = fmt.Errorf("status=%d: %s", resp.StatusCode, msg)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
			continue
		}
		lastErr = fmt.Errorf("status=%d: %s", resp.StatusCode, msg)
		break
	}
	return "", lastErr
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// OpenAIModelProvider 将 OpenAIChatClient 暴露为 ModelProvider。
type OpenAIModelProvider struct {
	id      string
	enabled bool
	vision  bool
	client  interface {
		CallWithPayload(ctx context.Context, payload ChatPayload) (string, error)
	}
}

func NewOpenAIModelProvider(id string, enabled, vision bool, client interface {
	CallWithPayload(context.Context, ChatPayload) (string, error)
}) *OpenAIModelProvider {
	return &OpenAIModelProvider{id: id, enabled: enabled, vision: vision, client: client}
}

func (p *OpenAIModelProvider) ID() string           { return p.id }
func (p *OpenAIModelProvider) Enabled() bool        { return p.enabled }
func (p *OpenAIModelProvider) SupportsVision() bool { return p.vision }
func (p *OpenAIModelProvider) Call(ctx context.Context, payload ChatPayload) (string, error) {
	return p.client.CallWithPayload(ctx, payload)
}
