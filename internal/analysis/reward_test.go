package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeReward(t *testing.T) {
	credits, cash := ComputeReward(1.0)
	assert.Equal(t, int64(10), credits)
	assert.Equal(t, "20", cash.String())

	// 信用向下取整，现金按信用结算
	credits, cash = ComputeReward(2.35)
	assert.Equal(t, int64(23), credits)
	assert.Equal(t, "46", cash.String())

	credits, cash = ComputeReward(0.05)
	assert.Equal(t, int64(0), credits)
	assert.True(t, cash.IsZero())
}

func TestComputeRewardNonPositive(t *testing.T) {
	for _, kg := range []float64{0, -1.5, math.NaN()} {
		credits, cash := ComputeReward(kg)
		assert.Equal(t, int64(0), credits)
		assert.True(t, cash.IsZero())
	}
}
