package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/minionslab/minions-finance/internal/agents"
	"github.com/minionslab/minions-finance/internal/common"
	"github.com/minionslab/minions-finance/internal/dataset"
	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/llm"
	anthropicllm "github.com/minionslab/minions-finance/internal/llm/anthropic"
	openaillm "github.com/minionslab/minions-finance/internal/llm/openai"
	"github.com/minionslab/minions-finance/internal/pipeline"
	"github.com/minionslab/minions-finance/internal/store"
)

func main() {
	var (
		dataPath = flag.String("data", "", "path to FinanceBench JSONL dataset (required)")
		limit    = flag.Int("limit", 0, "max questions to run (0 = all)")
		traceDir = flag.String("trace-dir", "./traces", "directory for per-question trace files (empty disables)")
		topK     = flag.Int("top-k", 3, "BM25 chunks handed to the retriever model")
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

	items, err := dataset.Load(*dataPath, *limit, logger)
	if err != nil {
		logger.Error("load dataset", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	client := newChatClient(cfg.LLM, logger)
	orch := pipeline.NewOrchestrator(
		agents.NewRetriever(client, agents.RetrieverConfig{TopK: *topK}, logger),
		agents.NewFinanceExtractor(client, logger),
		agents.NewCalculator(client, logger),
		agents.NewAggregator(client, logger),
		logger,
	)
	runner := pipeline.NewRunner(orch, cfg.LLM.MaxConcurrency, *traceDir, logger)

	tasks := make([]pipeline.Task, len(items))
	for i, it := range items {
		tasks[i] = pipeline.Task{Question: it.Question, Document: it.Document}
	}

	start := time.Now()
	answers, err := runner.RunAll(ctx, tasks)
	if err != nil {
		logger.Error("run pipelines", "error", err)
		os.Exit(1)
	}

	preds := make([]entity.Prediction, len(answers))
	failures := 0
	for i, a := range answers {
		if !a.IsValid {
			failures++
		}
		preds[i] = entity.Prediction{
			QuestionID: a.QuestionID,
			AnswerText: a.Text,
			Condition:  entity.ConditionMinions,
		}
	}

	if err := st.SavePredictions(ctx, preds); err != nil {
		logger.Error("save predictions", "error", err)
		os.Exit(1)
	}

	logger.Info("minions.done",
		"questions", len(items),
		"failures", failures,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

func newChatClient(cfg common.LLMConfig, logger *slog.Logger) llm.ChatClient {
	if cfg.Provider == "anthropic" {
		return anthropicllm.NewClient(anthropicllm.Config{
			Model:       cfg.Model,
			APIKey:      cfg.APIKey,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
			Timeout:     cfg.Timeout,
		}, logger)
	}
	return openaillm.NewClient(openaillm.Config{
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}, logger)
}
