package analysis

// 中文说明：
// 本文件定义三阶段分析流水线的通用数据结构：
// 检测条目（阶段1）、可持续性判定（阶段2）、政策/DIY 建议（阶段3）
// 以及最终聚合的结果记录。

import (
	"time"

	"github.com/shopspring/decimal"
)

// 物品状态枚举。
const (
	ConditionNew     = "new"
	ConditionUsed    = "used"
	ConditionDamaged = "damaged"
)

// 可持续性类别枚举。
const (
	TypeRecyclable    = "recyclable"
	TypeReusable      = "reusable"
	TypeUpcyclable    = "upcyclable"
	TypeEWaste        = "e-waste"
	TypeBiodegradable = "biodegradable"
)

// 最优处置动作枚举。
const (
	ActionReuse   = "reuse"
	ActionUpcycle = "upcycle"
	ActionRecycle = "recycle"
	ActionResell  = "resell"
	ActionDonate  = "donate"
)

// 建议类型枚举。
const (
	RecommendationDIY       = "DIY"
	RecommendationHousehold = "household"
	RecommendationCommunity = "community"
)

// DetectedItem 阶段1输出的单个检测条目。
type DetectedItem struct {
	Name      string `json:"item_name"`
	Material  string `json:"primary_material"`
	Condition string `json:"condition"` // new/used/damaged
	Quantity  int    `json:"quantity"`
}

// DetectionResult 阶段1的完整输出。
type DetectionResult struct {
	Items []DetectedItem `json:"items"`
}

// SustainabilityDecision 阶段2对单个条目的判定。
type SustainabilityDecision struct {
	Category    string          `json:"category"`
	Type        string          `json:"sustainability_type"` // recyclable/reusable/upcyclable/e-waste/biodegradable
	BestAction  string          `json:"best_action"`         // reuse/upcycle/recycle/resell/donate
	ResaleValue decimal.Decimal `json:"estimated_resale_value_inr"`
	CO2SavedKg  float64         `json:"estimated_co2_saved_kg"`
	Score       int             `json:"sustainability_score"` // 0-100
}

// PolicyRecommendation 阶段3对 (条目, 判定) 的建议。
type PolicyRecommendation struct {
	GreenPoints      int      `json:"government_green_points"`
	ActionType       string   `json:"action_type"` // DIY/household/community
	Steps            []string `json:"steps"`
	Tools            []string `json:"tools"`
	EstimatedMinutes float64  `json:"estimated_time_minutes"`
}

// ResultRecord 单个条目三阶段输出的聚合结果；创建后不再修改。
type ResultRecord struct {
	TraceID        string                 `json:"trace_id"`
	Item           DetectedItem           `json:"item"`
	Decision       SustainabilityDecision `json:"decision"`
	Recommendation PolicyRecommendation   `json:"recommendation"`
	CO2SavedKg     float64                `json:"co2_saved_kg"`
	Points         int64                  `json:"points"`
	Credits        int64                  `json:"credits"`
	CashINR        decimal.Decimal        `json:"cash_inr"`
	Timestamp      time.Time              `json:"timestamp"`
}

// SkippedItem 超出分析上限、仅回显的条目。
type SkippedItem struct {
	Name     string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

// ItemFailure 单条目阶段失败的记录（不影响批次中的其他条目）。
type ItemFailure struct {
	Item   DetectedItem `json:"item"`
	Stage  string       `json:"stage"`
	Reason string       `json:"reason"`
}

// RunResult 一次完整分析运行的输出。
type RunResult struct {
	TraceID  string         `json:"trace_id"`
	Records  []ResultRecord `json:"records"`
	Skipped  []SkippedItem  `json:"skipped"`
	Failures []ItemFailure  `json:"failures"`
}

// Input 一次运行的原始输入：图像与文本描述二选一。
type Input struct {
	Image     []byte
	ImageMIME string
	Text      string
}

// HasImage 判断输入是否携带图像。
func (in Input) HasImage() bool { return len(in.Image) > 0 }

// 阶段名称，用于日志与错误归因。
const (
	StageDetect    = "detect"
	StageDecide    = "decide"
	StageRecommend = "recommend"
)
