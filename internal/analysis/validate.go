package analysis

import (
	"fmt"
	"strings"
)

// 中文说明：
// 阶段输出的基础校验：
// - 枚举值合法
// - 数值字段非负（co2 / points / score）

var validTypes = map[string]bool{
	TypeRecyclable: true, TypeReusable: true, TypeUpcyclable: true,
	TypeEWaste: true, TypeBiodegradable: true,
}

var validActions = map[string]bool{
	ActionReuse: true, ActionUpcycle: true, ActionRecycle: true,
	ActionResell: true, ActionDonate: true,
}

var validRecommendationTypes = map[string]bool{
	RecommendationDIY: true, RecommendationHousehold: true, RecommendationCommunity: true,
}

// Validate 校验阶段2判定。
func (s *SustainabilityDecision) Validate() error {
	if !validTypes[s.Type] {
		return fmt.Errorf("非法 sustainability_type: %q", s.Type)
	}
	if !validActions[s.BestAction] {
		return fmt.Errorf("非法 best_action: %q", s.BestAction)
	}
	if s.CO2SavedKg < 0 {
		return fmt.Errorf("estimated_co2_saved_kg 不能为负: %v", s.CO2SavedKg)
	}
	if s.ResaleValue.IsNegative() {
		return fmt.Errorf("estimated_resale_value_inr 不能为负: %s", s.ResaleValue)
	}
	if s.Score < 0 || s.Score > 100 {
		return fmt.Errorf("sustainability_score 范围 0-100: %d", s.Score)
	}
	return nil
}

// Validate 校验阶段3建议。action_type 大小写不敏感（DIY 除外按惯例保留原样）。
func (p *PolicyRecommendation) Validate() error {
	if p.GreenPoints < 0 {
		return fmt.Errorf("government_green_points 不能为负: %d", p.GreenPoints)
	}
	if p.ActionType != "" && !validRecommendationTypes[normalizeActionType(p.ActionType)] {
		return fmt.Errorf("非法 action_type: %q", p.ActionType)
	}
	if p.EstimatedMinutes < 0 {
		return fmt.Errorf("estimated_time_minutes 不能为负: %v", p.EstimatedMinutes)
	}
	return nil
}

func normalizeActionType(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, RecommendationDIY) {
		return RecommendationDIY
	}
	return strings.ToLower(v)
}
