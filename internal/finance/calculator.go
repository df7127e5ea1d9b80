package finance

import (
	"fmt"
	"strings"

	"github.com/minionslab/minions-finance/internal/common"
	"github.com/minionslab/minions-finance/internal/entity"
)

// Compute applies the operation to the operands in order. All arithmetic is
// double-precision. A nil result means the inputs were insufficient or
// inconsistent; the returned explanation states why. A nil result is never a
// default zero.
func Compute(op entity.Operation, operands []entity.Operand) (*float64, string) {
	if need := op.MinOperands(); len(operands) < need {
		return nil, fmt.Sprintf("operation %s needs %d operands, got %d", op, need, len(operands))
	}

	switch op {
	case entity.OpSum:
		var total float64
		parts := make([]string, 0, len(operands))
		for _, o := range operands {
			total += o.Value
			parts = append(parts, fmt.Sprintf("%g", o.Value))
		}
		return &total, fmt.Sprintf("sum = %s = %g", strings.Join(parts, " + "), total)

	case entity.OpDifference:
		v := operands[0].Value - operands[1].Value
		return &v, fmt.Sprintf("difference = %g - %g = %g", operands[0].Value, operands[1].Value, v)

	case entity.OpRatio:
		if operands[1].Value == 0 {
			return nil, fmt.Sprintf("ratio undefined: %s is zero", operands[1].Label)
		}
		v := operands[0].Value / operands[1].Value
		return &v, fmt.Sprintf("ratio = %g / %g = %g", operands[0].Value, operands[1].Value, v)

	case entity.OpPercentage:
		if operands[1].Value == 0 {
			return nil, fmt.Sprintf("percentage undefined: %s is zero", operands[1].Label)
		}
		// 0-100 scale throughout
		v := operands[0].Value / operands[1].Value * 100
		return &v, fmt.Sprintf("percentage = %g / %g * 100 = %g%%", operands[0].Value, operands[1].Value, v)

	case entity.OpPercentChange:
		// operands in consumption order: initial, then final
		return PercentageChange(operands[0].Value, operands[1].Value)

	default:
		return nil, "no arithmetic operation identified for this question"
	}
}

// PercentageChange computes the change from initial to final on the 0-100
// scale. Undefined when initial is zero.
func PercentageChange(initial, final float64) (*float64, string) {
	if initial == 0 {
		return nil, "percentage change undefined: initial value is zero"
	}
	v := (final - initial) / absFloat(initial) * 100
	return &v, fmt.Sprintf("percentage change = (%g - %g) / |%g| * 100 = %g%%", final, initial, initial, v)
}

// CheckUnits returns an error when items mix currency and percent values, a
// combination no operation here can combine meaningfully.
func CheckUnits(items []entity.LineItem) error {
	var hasCurrency, hasPercent bool
	for _, it := range items {
		switch it.Unit {
		case entity.UnitCurrency:
			hasCurrency = true
		case entity.UnitPercent:
			hasPercent = true
		}
	}
	if hasCurrency && hasPercent {
		return fmt.Errorf("%w: mismatched units: currency and percent operands cannot be combined", common.ErrValidation)
	}
	return nil
}
