package analysis

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// 中文说明：
// 模型输出的字段类型并不稳定（数值可能是字符串、整数可能带小数），
// 这里对各阶段结构做宽松解码：逐字段取值并做类型矫正。

func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func coerceFloat64(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

func coerceInt(v any) int {
	return int(coerceFloat64(v))
}

func coerceDecimal(v any) decimal.Decimal {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero
		}
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
		return decimal.Zero
	default:
		f := coerceFloat64(v)
		return decimal.NewFromFloat(f)
	}
}

func coerceStringSlice(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s := coerceString(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		return []string{s}
	default:
		return nil
	}
}

// pick 按候选键顺序取首个存在的值。
func pick(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

func (d *DetectedItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Name = coerceString(pick(raw, "item_name", "name", "item"))
	d.Material = coerceString(pick(raw, "primary_material", "material"))
	d.Condition = strings.ToLower(coerceString(pick(raw, "condition")))
	d.Quantity = coerceInt(pick(raw, "quantity", "count"))
	if d.Quantity < 1 {
		d.Quantity = 1
	}
	return nil
}

func (s *SustainabilityDecision) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Category = coerceString(pick(raw, "category"))
	s.Type = strings.ToLower(coerceString(pick(raw, "sustainability_type")))
	s.BestAction = strings.ToLower(coerceString(pick(raw, "best_action", "best_sustainable_action")))
	s.ResaleValue = coerceDecimal(pick(raw, "estimated_resale_value_inr", "estimated_resale_value_in_inr"))
	s.CO2SavedKg = coerceFloat64(pick(raw, "estimated_co2_saved_kg", "estimated_co2_saved_by_sustainable_action_kg"))
	s.Score = coerceInt(pick(raw, "sustainability_score", "sustainability_score_out_of_100", "score"))
	return nil
}

func (p *PolicyRecommendation) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.GreenPoints = coerceInt(pick(raw, "government_green_points", "green_points"))
	p.ActionType = coerceString(pick(raw, "action_type"))
	p.Steps = coerceStringSlice(pick(raw, "steps"))
	p.Tools = coerceStringSlice(pick(raw, "tools"))
	p.EstimatedMinutes = coerceFloat64(pick(raw, "estimated_time_minutes", "estimated_minutes"))
	return nil
}
