package analysis

import "fmt"

// TransportError 推理服务调用本身失败（网络、鉴权、配额）。
type TransportError struct {
	Provider string
	Stage    string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure (provider=%s stage=%s): %v", e.Provider, e.Stage, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError 模型回复在去围栏后仍无法解析为期望的 JSON 结构，
// 或缺少必填字段。规整器不抛出异常，以显式错误值返回。
type MalformedResponseError struct {
	Stage  string
	Reason string
	Raw    string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (stage=%s): %s", e.Stage, e.Reason)
}

// RunFailedError 运行级失败：检测阶段不可用时整次分析终止，不产生部分结果。
type RunFailedError struct {
	Stage string
	Err   error
}

func (e *RunFailedError) Error() string {
	return fmt.Sprintf("analysis run failed at stage %s: %v", e.Stage, e.Err)
}

func (e *RunFailedError) Unwrap() error { return e.Err }
