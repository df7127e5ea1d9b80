package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/minionslab/minions-finance/internal/common"
	"github.com/minionslab/minions-finance/internal/dataset"
	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/eval"
	"github.com/minionslab/minions-finance/internal/export"
	"github.com/minionslab/minions-finance/internal/judge"
	"github.com/minionslab/minions-finance/internal/llm"
	anthropicllm "github.com/minionslab/minions-finance/internal/llm/anthropic"
	openaillm "github.com/minionslab/minions-finance/internal/llm/openai"
	"github.com/minionslab/minions-finance/internal/store"
)

func main() {
	var (
		dataPath = flag.String("data", "", "path to FinanceBench JSONL dataset with reference answers (required)")
		xlsxOut  = flag.String("out", "", "output XLSX report path (optional)")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *dataPath == "" {
		logger.Error("--data is required")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	items, err := dataset.Load(*dataPath, 0, logger)
	if err != nil {
		logger.Error("load dataset", "error", err)
		os.Exit(1)
	}
	references := dataset.References(items)

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var predictions []entity.Prediction
	for _, cond := range []entity.Condition{entity.ConditionBaseline, entity.ConditionMinions} {
		preds, err := st.ListPredictions(ctx, cond)
		if err != nil {
			logger.Error("list predictions", "condition", string(cond), "error", err)
			os.Exit(1)
		}
		predictions = append(predictions, preds...)
	}
	if len(predictions) == 0 {
		logger.Error("no stored predictions; run cmd/baseline or cmd/minions first")
		os.Exit(1)
	}

	client := newChatClient(cfg.LLM, cfg.Eval.JudgeModel, logger)
	j := judge.NewJudge(client, judge.Config{
		Model:        cfg.Eval.JudgeModel,
		NumTolerance: cfg.Eval.NumTolerance,
	}, logger)
	runner := eval.NewRunner(j, cfg.LLM.MaxConcurrency, logger)

	start := time.Now()
	records, err := runner.Run(ctx, predictions, references)
	if err != nil {
		logger.Error("run evaluation", "error", err)
		os.Exit(1)
	}

	if err := st.SaveScores(ctx, records); err != nil {
		logger.Error("save scores", "error", err)
		os.Exit(1)
	}

	summaries := eval.Summarize(records)
	if err := eval.WriteLog(cfg.Eval.LogDir, summaries, logger); err != nil {
		logger.Error("write eval log", "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		xlsxBytes, err := export.NewService(logger).ExportScoresXLSX(summaries)
		if err != nil {
			logger.Error("export xlsx", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, xlsxBytes, 0o644); err != nil {
			logger.Error("write xlsx", "error", err)
			os.Exit(1)
		}
	}

	for _, cond := range []entity.Condition{entity.ConditionBaseline, entity.ConditionMinions} {
		s, ok := summaries[cond]
		if !ok {
			continue
		}
		fmt.Printf("%s: %d/%d correct (%.1f%%), %d skipped\n",
			cond, s.Correct, s.Total, s.Accuracy*100, s.Skipped)
	}
	logger.Info("evaluate.done",
		"predictions", len(predictions),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

func newChatClient(cfg common.LLMConfig, model string, logger *slog.Logger) llm.ChatClient {
	if cfg.Provider == "anthropic" {
		return anthropicllm.NewClient(anthropicllm.Config{
			Model:       model,
			APIKey:      cfg.APIKey,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger)
	}
	return openaillm.NewClient(openaillm.Config{
		Model:       model,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}, logger)
}
