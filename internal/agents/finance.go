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

// FinanceExtractor turns retrieved snippets into labeled numeric line items.
// Figures that cannot be parsed as numbers are dropped with a logged reason;
// this is the validation gate protecting the calculator from garbage input.
type FinanceExtractor struct {
	client llm.ChatClient
	log    *slog.Logger
}

func NewFinanceExtractor(client llm.ChatClient, logger *slog.Logger) *FinanceExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinanceExtractor{client: client, log: logger}
}

type lineItemResponse struct {
	Items []struct {
		Label   string          `json:"label"`
		Value   json.RawMessage `json:"value"`
		Unit    string          `json:"unit"`
		Snippet *int            `json:"snippet"`
	} `json:"items"`
	Explanation string `json:"explanation"`
}

// Extract returns the line items the question needs. Empty snippets yield an
// empty result without a model call (degraded-but-valid). A reply that cannot
// be decoded degrades to an empty result with parseFailed set.
func (f *FinanceExtractor) Extract(ctx context.Context, q entity.Question, snippets []entity.Snippet) (items []entity.LineItem, parseFailed bool, err error) {
	if len(snippets) == 0 {
		f.log.Info("agent.extract.skip", "question_id", q.ID, "reason", "no snippets")
		return nil, false, nil
	}

	var ctxText strings.Builder
	for i, s := range snippets {
		fmt.Fprintf(&ctxText, "[%d] %s\n\n", i, s.Text)
	}

	user := fmt.Sprintf("Snippets (indexed):\n%s\nQuestion:\n%s\n\nJSON Schema:\n%s",
		ctxText.String(), q.Text, llm.LineItemSchema.JSON())

	reply, err := f.client.Complete(ctx, llm.Request{System: financeSystemPrompt, User: user})
	if err != nil {
		return nil, false, fmt.Errorf("finance model call: %w", err)
	}

	raw := []byte(llm.ExtractJSON(reply))
	if len(raw) == 0 {
		f.log.Warn("agent.extract.parse_failed", "question_id", q.ID, "reason", "no JSON object in reply")
		return nil, true, nil
	}
	if vErr := llm.LineItemSchema.Validate(raw); vErr != nil {
		f.log.Warn("agent.extract.parse_failed", "question_id", q.ID, "error", vErr)
		return nil, true, nil
	}
	var resp lineItemResponse
	if uErr := json.Unmarshal(raw, &resp); uErr != nil {
		f.log.Warn("agent.extract.parse_failed", "question_id", q.ID, "error", uErr)
		return nil, true, nil
	}

	for _, it := range resp.Items {
		value, unit, ok := parseItemValue(it.Value)
		if !ok {
			f.log.Warn("agent.extract.item_dropped",
				"question_id", q.ID, "label", it.Label, "reason", "value is not numeric")
			continue
		}
		if u := normalizeUnit(it.Unit); u != "" {
			unit = u
		}
		srcIdx := -1
		if it.Snippet != nil && *it.Snippet >= 0 && *it.Snippet < len(snippets) {
			srcIdx = *it.Snippet
		}
		items = append(items, entity.LineItem{
			Label:         strings.TrimSpace(it.Label),
			Value:         value,
			Unit:          unit,
			SourceSnippet: srcIdx,
		})
	}
	f.log.Info("agent.extract.ok",
		"question_id", q.ID, "items", len(items), "reported", len(resp.Items))
	return items, false, nil
}

// parseItemValue accepts a JSON number or a stated figure string.
func parseItemValue(raw json.RawMessage) (float64, entity.Unit, bool) {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, entity.UnitPlain, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return finance.ParseAmount(s)
	}
	return 0, entity.UnitPlain, false
}

func normalizeUnit(s string) entity.Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "usd", "dollar", "dollars", "currency", "$":
		return entity.UnitCurrency
	case "percent", "percentage", "%":
		return entity.UnitPercent
	case "plain", "number", "count", "ratio":
		return entity.UnitPlain
	}
	return ""
}
