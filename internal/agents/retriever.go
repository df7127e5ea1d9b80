package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/llm"
	"github.com/minionslab/minions-finance/internal/retrieval"
)

// RetrieverConfig bounds how much document text reaches the model.
type RetrieverConfig struct {
	MaxChunkSize int // default 3000
	ChunkOverlap int // default 20
	TopK         int // default 3
}

// Retriever finds the document snippets relevant to a question. The document
// is chunked and BM25-prefiltered locally so only the top chunks reach the
// model.
type Retriever struct {
	client llm.ChatClient
	cfg    RetrieverConfig
	log    *slog.Logger
}

func NewRetriever(client llm.ChatClient, cfg RetrieverConfig, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = 3000
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 20
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	return &Retriever{client: client, cfg: cfg, log: logger}
}

type retrieverResponse struct {
	Snippets []struct {
		SourceSpan string `json:"source_span"`
		Text       string `json:"text"`
	} `json:"snippets"`
	Explanation string `json:"explanation"`
}

// Retrieve returns relevance-ranked snippets for the question. An empty
// result is a valid "nothing found". A reply that cannot be decoded degrades
// to an empty result with parseFailed set; only a model-call failure is
// returned as an error.
func (r *Retriever) Retrieve(ctx context.Context, q entity.Question, document string) (snippets []entity.Snippet, parseFailed bool, err error) {
	if strings.TrimSpace(document) == "" {
		return nil, false, fmt.Errorf("document is empty")
	}
	if strings.TrimSpace(q.Text) == "" {
		return nil, false, fmt.Errorf("question text is empty")
	}

	chunks := retrieval.ChunkBySection(document, r.cfg.MaxChunkSize, r.cfg.ChunkOverlap)
	top := retrieval.TopKChunks(q.Text, chunks, r.cfg.TopK)
	r.log.Info("agent.retrieve.start",
		"question_id", q.ID, "chunks", len(chunks), "prefiltered", len(top))

	user := fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s\n\nJSON Schema:\n%s",
		strings.Join(top, "\n\n"), q.Text, llm.RetrieverSchema.JSON())

	reply, err := r.client.Complete(ctx, llm.Request{System: retrieverSystemPrompt, User: user})
	if err != nil {
		return nil, false, fmt.Errorf("retriever model call: %w", err)
	}

	raw := []byte(llm.ExtractJSON(reply))
	if len(raw) == 0 {
		r.log.Warn("agent.retrieve.parse_failed", "question_id", q.ID, "reason", "no JSON object in reply")
		return nil, true, nil
	}
	if vErr := llm.RetrieverSchema.Validate(raw); vErr != nil {
		r.log.Warn("agent.retrieve.parse_failed", "question_id", q.ID, "error", vErr)
		return nil, true, nil
	}
	var resp retrieverResponse
	if uErr := json.Unmarshal(raw, &resp); uErr != nil {
		r.log.Warn("agent.retrieve.parse_failed", "question_id", q.ID, "error", uErr)
		return nil, true, nil
	}

	for _, s := range resp.Snippets {
		if strings.TrimSpace(s.Text) == "" {
			continue
		}
		snippets = append(snippets, entity.Snippet{SourceSpan: s.SourceSpan, Text: s.Text})
	}
	r.log.Info("agent.retrieve.ok", "question_id", q.ID, "snippets", len(snippets))
	return snippets, false, nil
}
