package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"dammed/internal/pkg/jsonutil"

	"github.com/tidwall/gjson"
)

// 中文说明：
// 规整器：模型自由文本 → 结构化阶段记录。
// 任何解析失败都以 *MalformedResponseError 显式返回，绝不向上抛 panic，
// 也绝不静默取零值（缺少必填字段同样视为 MalformedResponse）。

// NormalizeDetection 解析阶段1回复。返回的 Items 已过滤掉无名称的条目。
func NormalizeDetection(raw string) (*DetectionResult, error) {
	block, err := extractObject(StageDetect, raw)
	if err != nil {
		return nil, err
	}
	var v any
	if uerr := json.Unmarshal([]byte(block), &v); uerr != nil {
		return nil, malformed(StageDetect, raw, "JSON 解码失败: "+uerr.Error())
	}
	if serr := detectionSchema.Validate(v); serr != nil {
		return nil, malformed(StageDetect, raw, "结构校验失败: "+serr.Error())
	}
	var det DetectionResult
	if uerr := json.Unmarshal([]byte(block), &det); uerr != nil {
		return nil, malformed(StageDetect, raw, "JSON 解码失败: "+uerr.Error())
	}
	items := det.Items[:0]
	for _, it := range det.Items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		items = append(items, it)
	}
	det.Items = items
	return &det, nil
}

// NormalizeDecision 解析阶段2回复。
func NormalizeDecision(raw string) (*SustainabilityDecision, error) {
	block, err := extractObject(StageDecide, raw)
	if err != nil {
		return nil, err
	}
	if merr := requireAnyKey(StageDecide, raw, block, [][]string{
		{"sustainability_type"},
		{"best_action", "best_sustainable_action"},
		{"estimated_co2_saved_kg", "estimated_co2_saved_by_sustainable_action_kg"},
	}); merr != nil {
		return nil, merr
	}
	var dec SustainabilityDecision
	if uerr := json.Unmarshal([]byte(block), &dec); uerr != nil {
		return nil, malformed(StageDecide, raw, "JSON 解码失败: "+uerr.Error())
	}
	if verr := dec.Validate(); verr != nil {
		return nil, malformed(StageDecide, raw, verr.Error())
	}
	return &dec, nil
}

// NormalizeRecommendation 解析阶段3回复。
func NormalizeRecommendation(raw string) (*PolicyRecommendation, error) {
	block, err := extractObject(StageRecommend, raw)
	if err != nil {
		return nil, err
	}
	if merr := requireAnyKey(StageRecommend, raw, block, [][]string{
		{"government_green_points", "green_points"},
	}); merr != nil {
		return nil, merr
	}
	var rec PolicyRecommendation
	if uerr := json.Unmarshal([]byte(block), &rec); uerr != nil {
		return nil, malformed(StageRecommend, raw, "JSON 解码失败: "+uerr.Error())
	}
	if verr := rec.Validate(); verr != nil {
		return nil, malformed(StageRecommend, raw, verr.Error())
	}
	return &rec, nil
}

func extractObject(stage, raw string) (string, error) {
	block, ok := jsonutil.ExtractJSON(raw)
	if !ok {
		return "", malformed(stage, raw, "未找到 JSON 内容")
	}
	if !gjson.Valid(block) {
		return "", malformed(stage, raw, "JSON 格式无效")
	}
	if !gjson.Parse(block).IsObject() {
		return "", malformed(stage, raw, "根节点必须是 JSON 对象")
	}
	return block, nil
}

// requireAnyKey 每组候选键至少命中一个，否则视为 MalformedResponse。
func requireAnyKey(stage, raw, block string, groups [][]string) error {
	parsed := gjson.Parse(block)
	for _, group := range groups {
		found := false
		for _, key := range group {
			if parsed.Get(key).Exists() {
				found = true
				break
			}
		}
		if !found {
			return malformed(stage, raw, fmt.Sprintf("缺少必填字段 %s", group[0]))
		}
	}
	return nil
}

func malformed(stage, raw, reason string) *MalformedResponseError {
	return &MalformedResponseError{Stage: stage, Reason: reason, Raw: raw}
}
