package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/finance"
	"github.com/minionslab/minions-finance/internal/llm"
)

// Calculator determines the operation a question implies and computes its
// result. Operation and operand selection are delegated to the model; the
// arithmetic itself is recomputed locally so a hallucinated result never
// reaches the answer.
type Calculator struct {
	client llm.ChatClient
	log    *slog.Logger
}

func NewCalculator(client llm.ChatClient, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{client: client, log: logger}
}

type calculatorResponse struct {
	Operation string `json:"operation"`
	Operands  []struct {
		Label string  `json:"label"`
		Value float64 `json:"value"`
	} `json:"operands"`
	Result      *float64 `json:"result"`
	Explanation string   `json:"explanation"`
}

// Calculate returns the calculation for the question. Insufficient operands
// and mismatched units are defined failure states: the result is nil and the
// explanation states the deficiency. A reply that cannot be decoded degrades
// the same way with parseFailed set.
func (c *Calculator) Calculate(ctx context.Context, q entity.Question, items []entity.LineItem) (result entity.CalculationResult, parseFailed bool, err error) {
	if len(items) == 0 {
		c.log.Info("agent.calculate.skip", "question_id", q.ID, "reason", "no line items")
		return entity.CalculationResult{
			Operation:   entity.OpOther,
			Explanation: "no line items available to calculate from",
		}, false, nil
	}

	if uErr := finance.CheckUnits(items); uErr != nil {
		c.log.Warn("agent.calculate.unit_mismatch", "question_id", q.ID, "error", uErr)
		return entity.CalculationResult{
			Operation:   entity.OpOther,
			Explanation: uErr.Error(),
		}, false, nil
	}

	var itemText strings.Builder
	for _, it := range items {
		fmt.Fprintf(&itemText, "- %s = %g (%s)\n", it.Label, it.Value, it.Unit)
	}

	user := fmt.Sprintf("Line items:\n%s\nQuestion:\n%s\n\nJSON Schema:\n%s",
		itemText.String(), q.Text, llm.CalculatorSchema.JSON())

	reply, err := c.client.Complete(ctx, llm.Request{System: calculatorSystemPrompt, User: user})
	if err != nil {
		return entity.CalculationResult{}, false, fmt.Errorf("calculator model call: %w", err)
	}

	raw := []byte(llm.ExtractJSON(reply))
	if len(raw) == 0 {
		return c.degraded(q, "no JSON object in reply"), true, nil
	}
	if vErr := llm.CalculatorSchema.Validate(raw); vErr != nil {
		cleaned, notes, sErr := llm.SanitizeCalculatorFields(raw)
		if sErr != nil {
			return c.degraded(q, sErr.Error()), true, nil
		}
		if vErr2 := llm.CalculatorSchema.Validate(cleaned); vErr2 != nil {
			return c.degraded(q, vErr2.Error()), true, nil
		}
		c.log.Warn("agent.calculate.lenient_sanitize_applied", "question_id", q.ID, "notes", notes)
		raw = cleaned
	}
	var resp calculatorResponse
	if uErr := json.Unmarshal(raw, &resp); uErr != nil {
		return c.degraded(q, uErr.Error()), true, nil
	}

	op, known := entity.ParseOperation(resp.Operation)
	if !known {
		c.log.Warn("agent.calculate.unknown_operation", "question_id", q.ID, "operation", resp.Operation)
	}

	operands := make([]entity.Operand, 0, len(resp.Operands))
	for _, o := range resp.Operands {
		operands = append(operands, entity.Operand{Label: o.Label, Value: o.Value})
	}

	// Never trust the model's arithmetic: recompute locally.
	value, explanation := finance.Compute(op, operands)
	if resp.Explanation != "" && value != nil {
		explanation = resp.Explanation + " (" + explanation + ")"
	}

	c.log.Info("agent.calculate.ok",
		"question_id", q.ID, "operation", string(op),
		"operands", len(operands), "has_result", value != nil)
	return entity.CalculationResult{
		Operation:   op,
		Operands:    operands,
		Result:      value,
		Explanation: explanation,
	}, false, nil
}

func (c *Calculator) degraded(q entity.Question, reason string) entity.CalculationResult {
	c.log.Warn("agent.calculate.parse_failed", "question_id", q.ID, "reason", reason)
	return entity.CalculationResult{
		Operation:   entity.OpOther,
		Explanation: "calculator response could not be parsed",
	}
}
