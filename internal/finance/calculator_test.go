package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minionslab/minions-finance/internal/common"
	"github.com/minionslab/minions-finance/internal/entity"
)

func operands(vals ...float64) []entity.Operand {
	out := make([]entity.Operand, len(vals))
	for i, v := range vals {
		out[i] = entity.Operand{Label: "x", Value: v}
	}
	return out
}

func TestComputeSum(t *testing.T) {
	v, expl := Compute(entity.OpSum, operands(100, 200, 50))
	require.NotNil(t, v)
	assert.InDelta(t, 350, *v, 1e-9)
	assert.Contains(t, expl, "sum")
}

func TestComputeDifferenceOrderMatters(t *testing.T) {
	v, _ := Compute(entity.OpDifference, operands(500, 300))
	require.NotNil(t, v)
	assert.InDelta(t, 200, *v, 1e-9)

	v, _ = Compute(entity.OpDifference, operands(300, 500))
	require.NotNil(t, v)
	assert.InDelta(t, -200, *v, 1e-9)
}

func TestComputeRatio(t *testing.T) {
	v, _ := Compute(entity.OpRatio, operands(1, 3))
	require.NotNil(t, v)
	assert.InDelta(t, 1.0/3.0, *v, 1e-12)
}

func TestComputeRatioZeroDivisor(t *testing.T) {
	v, expl := Compute(entity.OpRatio, operands(1, 0))
	assert.Nil(t, v)
	assert.Contains(t, expl, "zero")
}

func TestComputePercentageScale(t *testing.T) {
	// 0-100 scale, not a 0-1 fraction
	v, _ := Compute(entity.OpPercentage, operands(25, 200))
	require.NotNil(t, v)
	assert.InDelta(t, 12.5, *v, 1e-9)
}

func TestComputePercentChange(t *testing.T) {
	// a 100 -> 150 change is +50%, not the 150% a part-of-whole
	// percentage of the same operands would give
	v, expl := Compute(entity.OpPercentChange, operands(100, 150))
	require.NotNil(t, v)
	assert.InDelta(t, 50, *v, 1e-9)
	assert.Contains(t, expl, "percentage change")

	v, _ = Compute(entity.OpPercentChange, operands(200, 150))
	require.NotNil(t, v)
	assert.InDelta(t, -25, *v, 1e-9)

	v, _ = Compute(entity.OpPercentChange, operands(0, 150))
	assert.Nil(t, v)
}

func TestComputeInsufficientOperandsNeverZero(t *testing.T) {
	v, expl := Compute(entity.OpDifference, operands(500))
	assert.Nil(t, v)
	assert.Contains(t, expl, "needs 2 operands")
}

func TestComputeOtherOperation(t *testing.T) {
	v, expl := Compute(entity.OpOther, nil)
	assert.Nil(t, v)
	assert.NotEmpty(t, expl)
}

func TestPercentageChange(t *testing.T) {
	v, _ := PercentageChange(100, 150)
	require.NotNil(t, v)
	assert.InDelta(t, 50, *v, 1e-9)

	v, _ = PercentageChange(200, 150)
	require.NotNil(t, v)
	assert.InDelta(t, -25, *v, 1e-9)

	v, expl := PercentageChange(0, 150)
	assert.Nil(t, v)
	assert.Contains(t, expl, "initial value is zero")
}

func TestCheckUnits(t *testing.T) {
	mixed := []entity.LineItem{
		{Label: "revenue", Value: 100, Unit: entity.UnitCurrency},
		{Label: "margin", Value: 12.5, Unit: entity.UnitPercent},
	}
	err := CheckUnits(mixed)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "mismatched units")

	same := []entity.LineItem{
		{Label: "revenue", Value: 100, Unit: entity.UnitCurrency},
		{Label: "expenses", Value: 60, Unit: entity.UnitCurrency},
	}
	assert.NoError(t, CheckUnits(same))
}
