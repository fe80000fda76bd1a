package analysis

import (
	"math"

	"github.com/shopspring/decimal"
)

// 奖励换算常量：每公斤 CO₂ 折 10 绿色积分，每积分折 2 INR。
const (
	CreditsPerKgCO2 = 10
	CashPerCredit   = 2
)

// ComputeReward 纯函数：co2SavedKg → (credits, cashINR)。
// credits = floor(co2SavedKg × 10)，只截断不四舍五入；负输入视为 0。
func ComputeReward(co2SavedKg float64) (int64, decimal.Decimal) {
	if co2SavedKg <= 0 || math.IsNaN(co2SavedKg) {
		return 0, decimal.Zero
	}
	credits := int64(math.Floor(co2SavedKg * CreditsPerKgCO2))
	cash := decimal.NewFromInt(credits).Mul(decimal.NewFromInt(CashPerCredit))
	return credits, cash
}
