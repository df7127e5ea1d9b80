package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/minionslab/minions-finance/internal/entity"
)

// Task is one question plus the document text it is answered from.
type Task struct {
	Question entity.Question
	Document string
}

// Runner fans tasks out over independent per-question pipelines, bounded by
// an admission gate sized to the model API's call budget. Workers write into
// their own result slot; nothing is shared across questions.
type Runner struct {
	orch           *Orchestrator
	maxConcurrency int64
	traceDir       string // "" disables trace files
	log            *slog.Logger
}

func NewRunner(orch *Orchestrator, maxConcurrency int64, traceDir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Runner{orch: orch, maxConcurrency: maxConcurrency, traceDir: traceDir, log: logger}
}

// RunAll processes every task and returns one FinalAnswer per task, in task
// order. A single question's failure never stops the batch.
func (r *Runner) RunAll(ctx context.Context, tasks []Task) ([]entity.FinalAnswer, error) {
	if r.traceDir != "" {
		if err := os.MkdirAll(r.traceDir, 0o755); err != nil {
			return nil, fmt.Errorf("create trace dir: %w", err)
		}
	}

	sem := semaphore.NewWeighted(r.maxConcurrency)
	answers := make([]entity.FinalAnswer, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			answer, state := r.orch.Run(gctx, task.Question, task.Document)
			answers[i] = answer
			r.log.Info("runner.question.done",
				"question_id", task.Question.ID, "state", string(state), "is_valid", answer.IsValid)

			if r.traceDir != "" {
				r.writeTrace(task.Question.ID, answer, state)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *Runner) writeTrace(questionID string, answer entity.FinalAnswer, state State) {
	path := filepath.Join(r.traceDir, questionID+".json")
	b, err := json.MarshalIndent(map[string]any{
		"question_id": questionID,
		"state":       string(state),
		"is_valid":    answer.IsValid,
		"answer":      answer.Text,
		"trace":       answer.SupportingTrace,
	}, "", "  ")
	if err != nil {
		r.log.Warn("runner.trace.marshal_failed", "question_id", questionID, "error", err)
		return
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		r.log.Warn("runner.trace.write_failed", "question_id", questionID, "error", err)
	}
}
