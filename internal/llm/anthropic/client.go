package anthropic

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	anthropic "github.com/liushuangls/go-anthropic/v2"

	"github.com/minionslab/minions-finance/internal/common"
	"github.com/minionslab/minions-finance/internal/llm"
)

// Config holds the Anthropic client configuration.
type Config struct {
	Model       string
	APIKey      string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements llm.ChatClient over the Anthropic messages API.
type Client struct {
	cfg Config
	api *anthropic.Client
	log *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1024
	}
	return &Client{cfg: cfg, api: anthropic.NewClient(cfg.APIKey), log: logger}
}

func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}

	c.log.Info("llm.complete.start",
		"req_id", rid,
		"model", model,
		"temp", temperature,
		"system_len", len(req.System),
		"user_len", len(req.User),
	)

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.api.CreateMessages(callCtx, anthropic.MessagesRequest{
		Model:       anthropic.Model(model),
		System:      req.System,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(req.User)},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		c.log.Error("llm.complete.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewAppError("MODEL_CALL", err.Error(), common.ErrModelCall)
	}

	content := strings.TrimSpace(resp.GetFirstContentText())
	if content == "" {
		c.log.Error("llm.complete.empty_reply",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", common.NewAppError("MODEL_CALL", "empty reply", common.ErrModelCall)
	}

	c.log.Info("llm.complete.ok",
		"req_id", rid,
		"reply_len", len(content),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
