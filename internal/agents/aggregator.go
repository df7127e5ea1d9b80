package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/llm"
)

// Aggregator composes the final natural-language answer from the line items
// and the calculation. The terminal failure mode is a marked-invalid answer,
// never an error: when nothing usable survived the earlier stages it returns
// IsValid=false with a caveat.
type Aggregator struct {
	client llm.ChatClient
	log    *slog.Logger
}

func NewAggregator(client llm.ChatClient, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{client: client, log: logger}
}

type aggregatorResponse struct {
	FinalAnswer string `json:"final_answer"`
	Explanation string `json:"explanation"`
	Confidence  string `json:"confidence"`
}

// Aggregate returns the FinalAnswer for the question. Only a model-call
// failure is returned as an error; everything else degrades to a composed or
// caveated answer.
func (a *Aggregator) Aggregate(ctx context.Context, q entity.Question, items []entity.LineItem, calc entity.CalculationResult) (entity.FinalAnswer, error) {
	// Nothing to work with: terminal degraded answer, no model call.
	if calc.Result == nil && len(items) == 0 {
		a.log.Warn("agent.aggregate.no_inputs", "question_id", q.ID)
		return entity.FinalAnswer{
			QuestionID: q.ID,
			Text:       "Unable to answer: no relevant figures were found in the document. " + calc.Explanation,
			IsValid:    false,
		}, nil
	}

	var itemText strings.Builder
	for _, it := range items {
		fmt.Fprintf(&itemText, "- %s = %g (%s)\n", it.Label, it.Value, it.Unit)
	}
	calcText, _ := json.Marshal(calc)

	user := fmt.Sprintf("Original question:\n%s\n\nLine items:\n%s\nCalculation:\n%s\n\nJSON Schema:\n%s",
		q.Text, itemText.String(), string(calcText), llm.AggregatorSchema.JSON())

	reply, err := a.client.Complete(ctx, llm.Request{System: aggregatorSystemPrompt, User: user})
	if err != nil {
		return entity.FinalAnswer{}, fmt.Errorf("aggregator model call: %w", err)
	}

	text := ""
	raw := []byte(llm.ExtractJSON(reply))
	if len(raw) > 0 {
		if vErr := llm.AggregatorSchema.Validate(raw); vErr == nil {
			var resp aggregatorResponse
			if uErr := json.Unmarshal(raw, &resp); uErr == nil {
				text = strings.TrimSpace(resp.FinalAnswer)
			}
		}
	}
	if text == "" {
		a.log.Warn("agent.aggregate.parse_failed", "question_id", q.ID)
		text = a.compose(q, items, calc)
	}

	a.log.Info("agent.aggregate.ok", "question_id", q.ID, "answer_len", len(text))
	return entity.FinalAnswer{QuestionID: q.ID, Text: text, IsValid: true}, nil
}

// compose is the local fallback when the model's reply is unusable: prefer
// the calculation result, otherwise the most question-specific line item with
// an explicit caveat.
func (a *Aggregator) compose(q entity.Question, items []entity.LineItem, calc entity.CalculationResult) string {
	if calc.Result != nil {
		return FormatValue(*calc.Result, unitForCalc(calc, items)) + ". " + calc.Explanation
	}
	best := BestItem(q, items)
	return fmt.Sprintf("Based on the available line items (calculation was not possible): %s is %s. %s",
		best.Label, FormatValue(best.Value, best.Unit), calc.Explanation)
}

// BestItem picks the line item whose label matches the question most
// specifically: most question tokens in the label, ties broken by the
// latest-retrieved snippet.
func BestItem(q entity.Question, items []entity.LineItem) entity.LineItem {
	qTokens := strings.Fields(strings.ToLower(q.Text))
	best := items[0]
	bestScore := -1
	for _, it := range items {
		label := strings.ToLower(it.Label)
		score := 0
		for _, t := range qTokens {
			if len(t) > 2 && strings.Contains(label, t) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && it.SourceSnippet >= best.SourceSnippet) {
			best = it
			bestScore = score
		}
	}
	return best
}

// FormatValue renders a numeric value the way the answer rubric expects:
// scaled dollar amounts, one-decimal percentages, plain numbers otherwise.
func FormatValue(v float64, unit entity.Unit) string {
	switch unit {
	case entity.UnitPercent:
		return fmt.Sprintf("%.1f%%", v)
	case entity.UnitCurrency:
		abs := v
		if abs < 0 {
			abs = -abs
		}
		switch {
		case abs >= 1e9:
			return fmt.Sprintf("$%.2f billion", v/1e9)
		case abs >= 1e6:
			return fmt.Sprintf("$%.2f million", v/1e6)
		default:
			return fmt.Sprintf("$%.2f", v)
		}
	default:
		return fmt.Sprintf("%g", v)
	}
}

func unitForCalc(calc entity.CalculationResult, items []entity.LineItem) entity.Unit {
	if calc.Operation == entity.OpPercentage || calc.Operation == entity.OpPercentChange {
		return entity.UnitPercent
	}
	if calc.Operation == entity.OpRatio {
		return entity.UnitPlain
	}
	for _, it := range items {
		if it.Unit == entity.UnitCurrency {
			return entity.UnitCurrency
		}
	}
	return entity.UnitPlain
}
