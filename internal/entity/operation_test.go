package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOperation(t *testing.T) {
	tests := []struct {
		in   string
		want Operation
		ok   bool
	}{
		{"sum", OpSum, true},
		{"difference", OpDifference, true},
		{"ratio", OpRatio, true},
		{"percentage", OpPercentage, true},
		{"other", OpOther, true},
		{"  Difference ", OpDifference, true},
		{"subtract", OpDifference, true},
		{"change", OpDifference, true},
		{"divide", OpRatio, true},
		{"percent", OpPercentage, true},
		{"margin", OpPercentage, true},
		{"percent_change", OpPercentChange, true},
		{"percentage change", OpPercentChange, true},
		{"percent change", OpPercentChange, true},
		{"growth", OpPercentChange, true},
		{"growth rate", OpPercentChange, true},
		{"total", OpSum, true},
		{"none", OpOther, true},
		{"integrate", OpOther, false},
		{"", OpOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			op, ok := ParseOperation(tt.in)
			assert.Equal(t, tt.want, op)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestMinOperands(t *testing.T) {
	assert.Equal(t, 2, OpSum.MinOperands())
	assert.Equal(t, 2, OpDifference.MinOperands())
	assert.Equal(t, 2, OpRatio.MinOperands())
	assert.Equal(t, 2, OpPercentage.MinOperands())
	assert.Equal(t, 2, OpPercentChange.MinOperands())
	assert.Equal(t, 0, OpOther.MinOperands())
}

func TestOperationNamesCoversEnum(t *testing.T) {
	names := OperationNames()
	assert.ElementsMatch(t, []string{"sum", "difference", "ratio", "percentage", "percent_change", "other"}, names)
}
