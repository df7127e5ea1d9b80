package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/finance"
	"github.com/minionslab/minions-finance/internal/llm"
)

// Config holds judging parameters.
type Config struct {
	Model        string
	NumTolerance float64 // relative error accepted by the numeric check, default 0.01
}

// Judge scores one prediction against a reference answer across four
// independent criteria. The four sub-judgments have no ordering dependency
// and run concurrently.
//
// Numerical accuracy is checked locally whenever both answers contain
// numbers: a deterministic relative-error comparison, not a string match.
// Only non-numeric facts are delegated to the model.
type Judge struct {
	client llm.ChatClient
	cfg    Config
	log    *slog.Logger
}

func NewJudge(client llm.ChatClient, cfg Config, logger *slog.Logger) *Judge {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.NumTolerance <= 0 {
		cfg.NumTolerance = 0.01
	}
	return &Judge{client: client, cfg: cfg, log: logger}
}

type judgeResponse struct {
	Verdict     bool    `json:"verdict"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Score evaluates the prediction. It returns an error only when a judge
// model call fails; a malformed judge reply degrades to a false verdict.
func (j *Judge) Score(ctx context.Context, pred entity.Prediction, reference string) (entity.ScoreRecord, error) {
	j.log.Info("judge.score.start", "question_id", pred.QuestionID, "condition", string(pred.Condition))

	record := entity.ScoreRecord{
		QuestionID: pred.QuestionID,
		Condition:  pred.Condition,
	}

	var explanations [4]string
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		resp, err := j.ask(gctx, semanticRubric, pred.AnswerText, reference)
		if err != nil {
			return err
		}
		record.SemanticEquivalence = resp.Verdict
		explanations[0] = "semantic: " + resp.Explanation
		return nil
	})
	g.Go(func() error {
		resp, err := j.judgeNumeric(gctx, pred.AnswerText, reference)
		if err != nil {
			return err
		}
		record.NumericalAccuracy = resp.Verdict
		explanations[1] = "numeric: " + resp.Explanation
		return nil
	})
	g.Go(func() error {
		resp, err := j.ask(gctx, formatRubric, pred.AnswerText, reference)
		if err != nil {
			return err
		}
		record.FormatConsistency = resp.Verdict
		explanations[2] = "format: " + resp.Explanation
		return nil
	})
	g.Go(func() error {
		resp, err := j.ask(gctx, reasoningRubric, pred.AnswerText, reference)
		if err != nil {
			return err
		}
		record.ReasoningQuality = clamp01(resp.Score)
		explanations[3] = "reasoning: " + resp.Explanation
		return nil
	})

	if err := g.Wait(); err != nil {
		return entity.ScoreRecord{}, fmt.Errorf("judge %s: %w", pred.QuestionID, err)
	}

	record.Explanation = strings.Join(explanations[:], "; ")
	j.log.Info("judge.score.ok",
		"question_id", pred.QuestionID,
		"semantic", record.SemanticEquivalence,
		"numeric", record.NumericalAccuracy,
		"format", record.FormatConsistency,
		"reasoning", record.ReasoningQuality,
	)
	return record, nil
}

// judgeNumeric prefers the local tolerance check. When either side carries no
// numbers the fact is non-numeric and the model judges it.
func (j *Judge) judgeNumeric(ctx context.Context, predicted, reference string) (judgeResponse, error) {
	goldNums := finance.ExtractNumbers(reference)
	predNums := finance.ExtractNumbers(predicted)
	if len(goldNums) > 0 && len(predNums) > 0 {
		for _, g := range goldNums {
			for _, p := range predNums {
				if finance.WithinTolerance(p, g, j.cfg.NumTolerance) {
					return judgeResponse{
						Verdict:     true,
						Explanation: fmt.Sprintf("%g matches %g within %.2g relative error", p, g, j.cfg.NumTolerance),
					}, nil
				}
			}
		}
		return judgeResponse{
			Verdict:     false,
			Explanation: fmt.Sprintf("no predicted value matches the reference within %.2g relative error", j.cfg.NumTolerance),
		}, nil
	}
	return j.ask(ctx, numericRubric, predicted, reference)
}

func (j *Judge) ask(ctx context.Context, rubric, predicted, reference string) (judgeResponse, error) {
	user := fmt.Sprintf("%s\n\nGold answer:\n%s\n\nPredicted answer:\n%s\n\nJSON Schema:\n%s",
		rubric, reference, predicted, llm.JudgeSchema.JSON())

	reply, err := j.client.Complete(ctx, llm.Request{
		System: judgePreamble,
		User:   user,
		Model:  j.cfg.Model,
	})
	if err != nil {
		return judgeResponse{}, err
	}

	raw := []byte(llm.ExtractJSON(reply))
	if len(raw) == 0 {
		j.log.Warn("judge.parse_failed", "reason", "no JSON object in reply")
		return judgeResponse{Explanation: "judge reply had no JSON object"}, nil
	}
	if vErr := llm.JudgeSchema.Validate(raw); vErr != nil {
		j.log.Warn("judge.parse_failed", "error", vErr)
		return judgeResponse{Explanation: "judge reply failed schema validation"}, nil
	}
	var resp judgeResponse
	if uErr := json.Unmarshal(raw, &resp); uErr != nil {
		j.log.Warn("judge.parse_failed", "error", uErr)
		return judgeResponse{Explanation: "judge reply could not be decoded"}, nil
	}
	return resp, nil
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
