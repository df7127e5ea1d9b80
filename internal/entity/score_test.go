package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCondition(t *testing.T) {
	c, ok := ParseCondition("baseline")
	assert.True(t, ok)
	assert.Equal(t, ConditionBaseline, c)

	c, ok = ParseCondition(" Minions ")
	assert.True(t, ok)
	assert.Equal(t, ConditionMinions, c)

	c, ok = ParseCondition("multi-agent")
	assert.True(t, ok)
	assert.Equal(t, ConditionMinions, c)

	_, ok = ParseCondition("control")
	assert.False(t, ok)
}

func TestScoreRecordCorrect(t *testing.T) {
	assert.True(t, ScoreRecord{SemanticEquivalence: true, NumericalAccuracy: true}.Correct())
	assert.False(t, ScoreRecord{SemanticEquivalence: true, NumericalAccuracy: false}.Correct())
	assert.False(t, ScoreRecord{SemanticEquivalence: false, NumericalAccuracy: true}.Correct())

	// skipped records never count as correct even with passing criteria
	assert.False(t, ScoreRecord{Skipped: true, SemanticEquivalence: true, NumericalAccuracy: true}.Correct())
}
