package entity

import "strings"

// Operation is the arithmetic a question implies.
type Operation string

const (
	OpSum        Operation = "sum"
	OpDifference Operation = "difference"
	OpRatio      Operation = "ratio"
	OpPercentage Operation = "percentage"
	// OpPercentChange is relative change between an initial and a final
	// value, distinct from OpPercentage (part-of-whole): 100 -> 150 is a
	// +50% change, not 150%.
	OpPercentChange Operation = "percent_change"
	OpOther         Operation = "other"
)

var allOperations = []Operation{OpSum, OpDifference, OpRatio, OpPercentage, OpPercentChange, OpOther}

// OperationNames returns the operation enum as strings, for schema
// constraints and prompts.
func OperationNames() []string {
	result := make([]string, len(allOperations))
	for i, op := range allOperations {
		result[i] = string(op)
	}
	return result
}

// MinOperands returns how many operands the operation needs to produce a
// result.
func (o Operation) MinOperands() int {
	switch o {
	case OpSum, OpDifference, OpRatio, OpPercentage, OpPercentChange:
		return 2
	default:
		return 0
	}
}

// ParseOperation maps a model-produced operation label onto the enum.
func ParseOperation(input string) (Operation, bool) {
	if input == "" {
		return OpOther, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Operation{
		"add":               OpSum,
		"addition":          OpSum,
		"total":             OpSum,
		"subtract":          OpDifference,
		"subtraction":       OpDifference,
		"minus":             OpDifference,
		"change":            OpDifference,
		"divide":            OpRatio,
		"division":          OpRatio,
		"percent":           OpPercentage,
		"margin":            OpPercentage,
		"percentage change": OpPercentChange,
		"percent change":    OpPercentChange,
		"growth":            OpPercentChange,
		"growth rate":       OpPercentChange,
		"none":              OpOther,
	}

	if op, ok := synonyms[normalized]; ok {
		return op, true
	}

	for _, op := range allOperations {
		if normalized == string(op) {
			return op, true
		}
	}

	return OpOther, false
}
