package eval

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/minionslab/minions-finance/internal/common"
	"github.com/minionslab/minions-finance/internal/entity"
)

// Scorer is the judging capability the runner drives; satisfied by
// judge.Judge and by stubs in tests.
type Scorer interface {
	Score(ctx context.Context, pred entity.Prediction, reference string) (entity.ScoreRecord, error)
}

// Runner iterates a prediction set, pre-filters invalid predictions, judges
// the rest, and aggregates scores. The pre-filter exists because malformed
// predictions used to crash the judge call; skipping converts a crash into a
// logged, countable outcome. It applies uniformly to both conditions.
type Runner struct {
	judge          Scorer
	maxConcurrency int64
	log            *slog.Logger
}

func NewRunner(judge Scorer, maxConcurrency int64, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 4
	}
	return &Runner{judge: judge, maxConcurrency: maxConcurrency, log: logger}
}

// Prefilter returns why a prediction must not reach the judge, as an error
// carrying common.ErrInvalidPrediction, or nil when it may. Empty answers and
// answers carrying the pipeline's Error marker are invalid by construction.
func Prefilter(pred entity.Prediction, references map[string]string) *common.AppError {
	text := strings.TrimSpace(pred.AnswerText)
	if text == "" {
		return invalidPrediction("empty answer text")
	}
	if strings.HasPrefix(text, entity.ErrorMarker) {
		return invalidPrediction("answer is error-marked")
	}
	if _, ok := references[pred.QuestionID]; !ok {
		return invalidPrediction("no reference answer for question")
	}
	return nil
}

func invalidPrediction(reason string) *common.AppError {
	return common.NewAppError("INVALID_PREDICTION", reason, common.ErrInvalidPrediction)
}

// Run scores every prediction and returns one ScoreRecord per prediction, in
// input order. Skipped and judge-failed predictions produce skipped records;
// nothing here ever aborts the batch.
func (r *Runner) Run(ctx context.Context, predictions []entity.Prediction, references map[string]string) ([]entity.ScoreRecord, error) {
	records := make([]entity.ScoreRecord, len(predictions))

	sem := semaphore.NewWeighted(r.maxConcurrency)
	g, gctx := errgroup.WithContext(ctx)

	for i, pred := range predictions {
		if ferr := Prefilter(pred, references); ferr != nil {
			r.log.Warn("eval.skip",
				"question_id", pred.QuestionID, "condition", string(pred.Condition), "error", ferr)
			records[i] = skippedRecord(pred, ferr.Message)
			continue
		}

		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			rec, err := r.judge.Score(gctx, pred, references[pred.QuestionID])
			if err != nil {
				r.log.Error("eval.judge_failed",
					"question_id", pred.QuestionID, "condition", string(pred.Condition), "error", err)
				records[i] = skippedRecord(pred, fmt.Sprintf("judge failed: %v", err))
				return nil
			}
			rec.JudgedAt = time.Now().UTC()
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func skippedRecord(pred entity.Prediction, reason string) entity.ScoreRecord {
	return entity.ScoreRecord{
		QuestionID: pred.QuestionID,
		Condition:  pred.Condition,
		Skipped:    true,
		SkipReason: reason,
		JudgedAt:   time.Now().UTC(),
	}
}

// Summary aggregates one condition's records.
type Summary struct {
	Condition entity.Condition     `json:"condition"`
	Correct   int                  `json:"correct"`
	Total     int                  `json:"total"`
	Skipped   int                  `json:"skipped"`
	Accuracy  float64              `json:"accuracy"`
	Records   []entity.ScoreRecord `json:"records"`
}

// Summarize splits records by condition and computes accuracy over the
// non-skipped ones.
func Summarize(records []entity.ScoreRecord) map[entity.Condition]*Summary {
	out := make(map[entity.Condition]*Summary)
	for _, rec := range records {
		s, ok := out[rec.Condition]
		if !ok {
			s = &Summary{Condition: rec.Condition}
			out[rec.Condition] = s
		}
		s.Records = append(s.Records, rec)
		if rec.Skipped {
			s.Skipped++
			continue
		}
		s.Total++
		if rec.Correct() {
			s.Correct++
		}
	}
	for _, s := range out {
		if s.Total > 0 {
			s.Accuracy = float64(s.Correct) / float64(s.Total)
		}
	}
	return out
}

// WriteLog writes one timestamped JSON log per condition under
// logDir/<condition>/. Skipped entries are written with their reason, never
// silently dropped.
func WriteLog(logDir string, summaries map[entity.Condition]*Summary, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	timestamp := time.Now().UTC().Format("20060102_150405")
	for cond, s := range summaries {
		dir := filepath.Join(logDir, string(cond))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create eval log dir: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("eval_%s.json", timestamp))
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal eval log: %w", err)
		}
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return fmt.Errorf("write eval log: %w", err)
		}
		logger.Info("eval.log.written",
			"condition", string(cond), "path", path,
			"correct", s.Correct, "total", s.Total, "skipped", s.Skipped)
	}
	return nil
}
