package jsonutil

import (
	"strings"
)

const codeFence = "```"

// ExtractJSON 从模型自由文本中提取首个 JSON 值：
// 优先解析围栏代码块（带语言标签或裸围栏），其次扫描裸 JSON 对象/数组。
// 返回的文本已去除首尾空白；找不到时 ok=false。
func ExtractJSON(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if block, ok := extractFromFence(raw); ok {
		return block, true
	}
	return extractJSONValue(raw)
}

func extractFromFence(raw string) (string, bool) {
	start := strings.Index(raw, codeFence)
	if start == -1 {
		return "", false
	}
	rest := raw[start+len(codeFence):]
	end := strings.Index(rest, codeFence)
	if end == -1 {
		return "", false
	}
	block := rest[:end]
	block = strings.TrimLeft(block, "\r\n")
	// 去掉围栏首行的语言标签（如 ```json）
	if idx := strings.Index(block, "\n"); idx != -1 {
		first := strings.TrimSpace(block[:idx])
		if first != "" && !strings.ContainsAny(first, "[{") {
			block = block[idx+1:]
		}
	}
	block = strings.TrimSpace(block)
	if block == "" {
		return "", false
	}
	if inner, ok := extractJSONValue(block); ok {
		return inner, true
	}
	return block, true
}

// extractJSONValue 返回首个配平的 JSON 对象或数组（以先出现者为准）。
func extractJSONValue(raw string) (string, bool) {
	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	if objStart == -1 && arrStart == -1 {
		return "", false
	}
	if arrStart == -1 || (objStart != -1 && objStart < arrStart) {
		return scanBalanced(raw, objStart, '{', '}')
	}
	return scanBalanced(raw, arrStart, '[', ']')
}

func scanBalanced(raw string, start int, open, close byte) (string, bool) {
	depth := 0
	inString := false
	escape := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			if escape {
				escape = false
				continue
			}
			if ch == '\\' {
				escape = true
				continue
			}
			if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return strings.TrimSpace(raw[start : i+1]), true
			}
		}
	}
	return "", false
}
