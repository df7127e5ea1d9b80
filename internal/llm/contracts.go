package llm

import "context"

// Request is one prompt submission. Model/Temperature/MaxTokens override the
// client defaults when non-zero.
type Request struct {
	System      string
	User        string
	Model       string
	Temperature float32
	MaxTokens   int
}

// ChatClient is the port every agent and the judge call through. Complete
// returns the raw text of the model's reply; transport, timeout, and quota
// failures come back wrapped in common.ErrModelCall. Retry policy belongs to
// the implementation, not the callers.
type ChatClient interface {
	Complete(ctx context.Context, req Request) (string, error)
}
