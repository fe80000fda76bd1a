package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"dammed/internal/pkg/jsonutil"
)

var (
	llmMu  sync.Mutex
	llmLog *log.Logger
)

// SetLLMWriter 设置 LLM 请求/响应转储的输出目标；传 nil 关闭转储。
func SetLLMWriter(w io.Writer) {
	llmMu.Lock()
	defer llmMu.Unlock()
	if w == nil {
		llmLog = nil
		return
	}
	llmLog = log.New(w, "", log.LstdFlags)
}

type llmSection struct {
	Title string
	Body  string
}

func logLLM(kind, provider, stage string, sections []llmSection) {
	llmMu.Lock()
	logger := llmLog
	llmMu.Unlock()
	if logger == nil {
		return
	}
	var b strings.Builder
	b.WriteString("[LLM]")
	if kind != "" {
		b.WriteString("[")
		b.WriteString(kind)
		b.WriteString("]")
	}
	if provider != "" {
		b.WriteString("[")
		b.WriteString(provider)
		b.WriteString("]")
	}
	if stage != "" {
		b.WriteString("[")
		b.WriteString(stage)
		b.WriteString("]")
	}
	b.WriteString("\n")
	for _, sec := range sections {
		t := strings.TrimSpace(sec.Title)
		if t == "" {
			t = "CONTENT"
		}
		b.WriteString("--- ")
		b.WriteString(t)
		b.WriteString(" ---\n")
		body := sec.Body
		b.WriteString(body)
		if !strings.HasSuffix(body, "\n") {
			b.WriteString("\n")
		}
	}
	b.WriteString("=====\n")
	logger.Print(b.String())
}

// LogLLMRequest 记录一次阶段请求（system/user 提示词与图像数量）。
func LogLLMRequest(provider, stage, systemPrompt, userPrompt string, imageCount int) {
	sections := []llmSection{
		{Title: "SYSTEM", Body: systemPrompt},
		{Title: "USER", Body: userPrompt},
	}
	if imageCount > 0 {
		sections = append(sections, llmSection{Title: "IMAGES", Body: fmt.Sprintf("%d attached", imageCount)})
	}
	logLLM("request", provider, stage, sections)
}

// LogLLMResponse 记录模型原始输出；裸 JSON 回复做缩进美化。
func LogLLMResponse(provider, stage, raw string) {
	logLLM("response", provider, stage, []llmSection{{Title: "RAW", Body: jsonutil.Pretty(raw)}})
}
