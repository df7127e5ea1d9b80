package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minionslab/minions-finance/internal/entity"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		value float64
		unit  entity.Unit
		ok    bool
	}{
		{"dollar billions", "$1.2 billion", 1.2e9, entity.UnitCurrency, true},
		{"dollar millions abbreviated", "$450M", 450e6, entity.UnitCurrency, true},
		{"bn suffix", "8.74bn", 8.74e9, entity.UnitCurrency, true},
		{"thousands separators", "$1,234,567.89", 1234567.89, entity.UnitCurrency, true},
		{"accounting negative", "($1,234)", -1234, entity.UnitCurrency, true},
		{"percent", "12.5%", 12.5, entity.UnitPercent, true},
		{"percent word", "7 percent", 7, entity.UnitPercent, true},
		{"plain number", "42", 42, entity.UnitPlain, true},
		{"negative plain", "-3.5", -3.5, entity.UnitPlain, true},
		{"no number", "not stated", 0, entity.UnitPlain, false},
		{"empty", "", 0, entity.UnitPlain, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, u, ok := ParseAmount(tt.in)
			require.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.InDelta(t, tt.value, v, 1e-9)
			assert.Equal(t, tt.unit, u)
		})
	}
}

func TestParseAmountScaleWordNotPrefix(t *testing.T) {
	// "m" must only scale as a standalone suffix, not as the start of a word
	v, _, ok := ParseAmount("500 meters of cable")
	require.True(t, ok)
	assert.InDelta(t, 500, v, 1e-9)
}

func TestExtractNumbers(t *testing.T) {
	nums := ExtractNumbers("Revenue was $1.5 billion, up from $1.2 billion")
	require.Len(t, nums, 2)
	assert.InDelta(t, 1.5e9, nums[0], 1)
	assert.InDelta(t, 1.2e9, nums[1], 1)

	assert.Empty(t, ExtractNumbers("no figures here"))
}

func TestWithinTolerance(t *testing.T) {
	// 1% relative error accepts 1010 vs 1000; 0.1% rejects it
	assert.True(t, WithinTolerance(1010, 1000, 0.01))
	assert.False(t, WithinTolerance(1010, 1000, 0.001))

	assert.True(t, WithinTolerance(1000, 1000, 0.01))
	assert.False(t, WithinTolerance(1100, 1000, 0.01))

	// gold of zero compares absolutely
	assert.True(t, WithinTolerance(0, 0, 0.01))
	assert.True(t, WithinTolerance(0.005, 0, 0.01))
	assert.False(t, WithinTolerance(5, 0, 0.01))

	// negative golds use |gold|
	assert.True(t, WithinTolerance(-1010, -1000, 0.01))
}
