package entity

import (
	"strings"
	"time"
)

// Condition is the experimental arm a prediction belongs to.
type Condition string

const (
	ConditionBaseline Condition = "baseline"
	ConditionMinions  Condition = "minions"
)

// ParseCondition maps a stored condition label onto the enum.
func ParseCondition(input string) (Condition, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case string(ConditionBaseline):
		return ConditionBaseline, true
	case string(ConditionMinions), "multiagent", "multi-agent":
		return ConditionMinions, true
	}
	return "", false
}

// ScoreRecord is one evaluated prediction. Skipped records carry a reason and
// zero-valued criteria; they are logged, never dropped.
type ScoreRecord struct {
	QuestionID          string    `json:"question_id"`
	Condition           Condition `json:"condition"`
	SemanticEquivalence bool      `json:"semantic_equivalence"`
	NumericalAccuracy   bool      `json:"numerical_accuracy"`
	FormatConsistency   bool      `json:"format_consistency"`
	ReasoningQuality    float64   `json:"reasoning_quality"` // 0..1
	Explanation         string    `json:"explanation,omitempty"`
	Skipped             bool      `json:"skipped"`
	SkipReason          string    `json:"skip_reason,omitempty"`
	JudgedAt            time.Time `json:"judged_at"`
}

// Correct reports whether the record counts toward accuracy: the prediction
// conveys the reference fact and its numbers check out.
func (r ScoreRecord) Correct() bool {
	return !r.Skipped && r.SemanticEquivalence && r.NumericalAccuracy
}
