package agents

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/llm"
)

const baselineSystemPrompt = `You are a financial analyst answering questions about company filings.
Read the document excerpt and answer the question directly and concisely.
State numeric answers with their units (e.g., "$8.74 billion", "12.5%").
If the document does not contain the answer, say so.`

// Baseline answers a question with a single model call over the whole
// document, no decomposition. It is the comparison condition for the
// multi-agent pipeline.
type Baseline struct {
	client llm.ChatClient
	log    *slog.Logger
}

func NewBaseline(client llm.ChatClient, logger *slog.Logger) *Baseline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Baseline{client: client, log: logger}
}

// Answer returns a FinalAnswer for the question. A model-call failure yields
// an error-marked, invalid answer rather than an error, matching the
// pipeline's contract.
func (b *Baseline) Answer(ctx context.Context, q entity.Question, document string) entity.FinalAnswer {
	user := fmt.Sprintf("Document:\n%s\n\nQuestion: %s", document, q.Text)

	reply, err := b.client.Complete(ctx, llm.Request{
		System: baselineSystemPrompt,
		User:   user,
	})
	if err != nil {
		b.log.Error("agent.baseline.error", "question_id", q.ID, "error", err)
		return entity.FinalAnswer{
			QuestionID: q.ID,
			Text:       fmt.Sprintf("%s: baseline answer failed: %v", entity.ErrorMarker, err),
			IsValid:    false,
		}
	}

	text := strings.TrimSpace(reply)
	b.log.Info("agent.baseline.ok", "question_id", q.ID, "answer_len", len(text))
	return entity.FinalAnswer{
		QuestionID: q.ID,
		Text:       text,
		IsValid:    text != "",
	}
}
