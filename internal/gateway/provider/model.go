package provider

import "context"

// ImagePayload 注入模型的图像（data URI + 可选描述）。
type ImagePayload struct {
	DataURI     string
	Description string
}

// ChatPayload 一次阶段调用的完整输入。
type ChatPayload struct {
	System string
	User   string
	Images []ImagePayload
}

// ModelProvider 外部推理服务的统一出口。
type ModelProvider interface {
	ID() string
	Enabled() bool
	SupportsVision() bool

	Call(ctx context.Context, payload ChatPayload) (string, error)
}
