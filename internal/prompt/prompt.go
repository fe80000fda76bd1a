package prompt

import (
	"fmt"
	"strings"
)

// 中文说明：
// 三阶段提示词：system 模板可被 profile 文件覆盖，user 内容由代码拼装。
// 字段名与各阶段的 JSON 输出契约在 system 模板中写死，
// 规整器按同一契约解码。

// Profile 三个阶段的 system 提示词。
type Profile struct {
	Detection      string `yaml:"detection" mapstructure:"detection"`
	Decision       string `yaml:"decision" mapstructure:"decision"`
	Recommendation string `yaml:"recommendation" mapstructure:"recommendation"`
}

const defaultDetectionSystem = `You are a waste detection agent for a circular economy service.

Identify every discarded or used item in the input. For each item report:
- item_name
- primary_material
- condition (new / used / damaged)
- quantity (integer, at least 1)

Respond ONLY with a JSON object of this shape:
{"items": [{"item_name": "...", "primary_material": "...", "condition": "used", "quantity": 1}]}`

const defaultDecisionSystem = `You are a circular economy sorting and carbon-impact decision agent.

Given one detected item, classify it and respond ONLY with a JSON object containing:
- category
- sustainability_type (recyclable / reusable / upcyclable / e-waste / biodegradable)
- best_action (reuse / upcycle / recycle / resell / donate)
- estimated_resale_value_inr
- estimated_co2_saved_kg
- sustainability_score (integer 0-100)

Use realistic but approximate values.`

const defaultRecommendationSystem = `You are a government policy and DIY suggestion agent for sustainable disposal.

Given a detected item and its sustainability decision, respond ONLY with a JSON object containing:
- government_green_points (non-negative integer)
- action_type (DIY / household / community)
- steps (ordered list of strings)
- tools (list of strings)
- estimated_time_minutes`

// Defaults 内置提示词。
func Defaults() Profile {
	return Profile{
		Detection:      defaultDetectionSystem,
		Decision:       defaultDecisionSystem,
		Recommendation: defaultRecommendationSystem,
	}
}

func (p Profile) withDefaults() Profile {
	d := Defaults()
	if strings.TrimSpace(p.Detection) == "" {
		p.Detection = d.Detection
	}
	if strings.TrimSpace(p.Decision) == "" {
		p.Decision = d.Decision
	}
	if strings.TrimSpace(p.Recommendation) == "" {
		p.Recommendation = d.Recommendation
	}
	return p
}

// DetectionUser 拼装阶段1的 user 内容。
func DetectionUser(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return "Detect every discarded item in the attached photo."
	}
	return fmt.Sprintf("Detect the discarded items in this description:\n\n%s", description)
}

// DecisionUser 拼装阶段2的 user 内容。
func DecisionUser(itemJSON string) string {
	return fmt.Sprintf("Detected item:\n%s\n\nClassify it and respond ONLY in JSON.", itemJSON)
}

// RecommendationUser 拼装阶段3的 user 内容。
func RecommendationUser(itemJSON, decisionJSON string) string {
	var b strings.Builder
	b.WriteString("Detected item:\n")
	b.WriteString(itemJSON)
	b.WriteString("\n\nSustainability decision:\n")
	b.WriteString(decisionJSON)
	b.WriteString("\n\nSuggest the policy recommendation and respond ONLY in JSON.")
	return b.String()
}
