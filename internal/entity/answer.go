package entity

// Operand is one labeled numeric input to a calculation.
type Operand struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CalculationResult is the calculator stage's output. Result is nil only when
// the inputs were insufficient or inconsistent; it is never a fabricated
// default.
type CalculationResult struct {
	Operation   Operation `json:"operation"`
	Operands    []Operand `json:"operands"`
	Result      *float64  `json:"result"`
	Explanation string    `json:"explanation"`
}

// TraceStep records one intermediate artifact of a pipeline run, in stage
// order.
type TraceStep struct {
	Stage  string `json:"stage"`
	Detail string `json:"detail"`
}

// FinalAnswer is the terminal artifact of one pipeline run. A failed run still
// produces one, with IsValid false and Text carrying the ErrorMarker prefix.
type FinalAnswer struct {
	QuestionID      string      `json:"question_id"`
	Text            string      `json:"text"`
	SupportingTrace []TraceStep `json:"supporting_trace,omitempty"`
	IsValid         bool        `json:"is_valid"`
}

// ErrorMarker prefixes the answer text of a failed pipeline run so that
// evaluation can recognize and skip it uniformly.
const ErrorMarker = "Error"

// Prediction is the persisted, reloaded form of a FinalAnswer.
type Prediction struct {
	QuestionID string    `json:"question_id"`
	AnswerText string    `json:"answer_text"`
	Condition  Condition `json:"condition"`
}
