package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/minionslab/minions-finance/internal/entity"
)

// record mirrors one FinanceBench JSONL line. Only the fields the pipeline
// needs are decoded.
type record struct {
	FinancebenchID string `json:"financebench_id"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	DocName        string `json:"doc_name"`
	Evidence       []struct {
		EvidenceText string `json:"evidence_text"`
	} `json:"evidence"`
}

// Item is one loaded question plus the document text it is answered from.
// The document is the question's evidence passages joined in order; full
// filings are not shipped with the dataset.
type Item struct {
	Question entity.Question
	Document string
}

// Load reads a FinanceBench-format JSONL file. Lines that fail to decode or
// that lack an id or question text are logged and skipped; a malformed line
// should cost one question, not the run. Limit <= 0 loads everything.
func Load(path string, limit int, logger *slog.Logger) ([]Item, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	var items []Item
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			logger.Warn("dataset.line_skipped", "line", lineNo, "error", err)
			continue
		}
		if rec.FinancebenchID == "" || strings.TrimSpace(rec.Question) == "" {
			logger.Warn("dataset.line_skipped", "line", lineNo, "reason", "missing id or question")
			continue
		}

		var parts []string
		for _, ev := range rec.Evidence {
			if t := strings.TrimSpace(ev.EvidenceText); t != "" {
				parts = append(parts, t)
			}
		}

		items = append(items, Item{
			Question: entity.Question{
				ID:              rec.FinancebenchID,
				Text:            rec.Question,
				DocumentRef:     rec.DocName,
				ReferenceAnswer: rec.Answer,
			},
			Document: strings.Join(parts, "\n\n"),
		})
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	logger.Info("dataset.loaded", "path", path, "questions", len(items))
	return items, nil
}

// References maps question id to reference answer for the judge.
func References(items []Item) map[string]string {
	refs := make(map[string]string, len(items))
	for _, it := range items {
		if it.Question.ReferenceAnswer != "" {
			refs[it.Question.ID] = it.Question.ReferenceAnswer
		}
	}
	return refs
}
