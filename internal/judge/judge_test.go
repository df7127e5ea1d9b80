package judge

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minionslab/minions-finance/internal/entity"
	"github.com/minionslab/minions-finance/internal/llm"
)

// deterministicClient always returns the same reply; safe for concurrent
// sub-judgments.
type deterministicClient struct {
	reply string
	err   error
	calls atomic.Int64
}

func (c *deterministicClient) Complete(context.Context, llm.Request) (string, error) {
	c.calls.Add(1)
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

var pred = entity.Prediction{
	QuestionID: "fb-007",
	AnswerText: "Total revenue was $1,010 million.",
	Condition:  entity.ConditionMinions,
}

func TestScoreNumericWithinTolerance(t *testing.T) {
	client := &deterministicClient{reply: `{"verdict":true,"score":0.9,"explanation":"matches"}`}
	j := NewJudge(client, Config{NumTolerance: 0.01}, nil)

	rec, err := j.Score(context.Background(), pred, "Revenue was $1,000 million")
	require.NoError(t, err)
	assert.True(t, rec.NumericalAccuracy)
	assert.True(t, rec.SemanticEquivalence)
	assert.True(t, rec.FormatConsistency)
	assert.InDelta(t, 0.9, rec.ReasoningQuality, 1e-9)
	assert.False(t, rec.Skipped)

	// numeric was decided locally: only the three rubric calls hit the model
	assert.EqualValues(t, 3, client.calls.Load())
}

func TestScoreNumericOutsideTolerance(t *testing.T) {
	client := &deterministicClient{reply: `{"verdict":true,"score":0.9,"explanation":"matches"}`}
	j := NewJudge(client, Config{NumTolerance: 0.001}, nil)

	rec, err := j.Score(context.Background(), pred, "Revenue was $1,000 million")
	require.NoError(t, err)
	// 1010 vs 1000 misses a 0.1% tolerance
	assert.False(t, rec.NumericalAccuracy)
	assert.False(t, rec.Correct())
}

func TestScoreNonNumericDelegatesToModel(t *testing.T) {
	client := &deterministicClient{reply: `{"verdict":true,"score":0.8,"explanation":"same segment"}`}
	j := NewJudge(client, Config{}, nil)

	textPred := entity.Prediction{QuestionID: "fb-008", AnswerText: "The Consumer segment", Condition: entity.ConditionBaseline}
	rec, err := j.Score(context.Background(), textPred, "Consumer")
	require.NoError(t, err)
	assert.True(t, rec.NumericalAccuracy)
	// all four criteria needed the model
	assert.EqualValues(t, 4, client.calls.Load())
}

func TestScoreModelCallFailure(t *testing.T) {
	client := &deterministicClient{err: errors.New("api down")}
	j := NewJudge(client, Config{}, nil)

	_, err := j.Score(context.Background(), pred, "Revenue was $1,000 million")
	assert.Error(t, err)
}

func TestScoreMalformedReplyDegradesToFalse(t *testing.T) {
	client := &deterministicClient{reply: "I believe the answers match."}
	j := NewJudge(client, Config{}, nil)

	rec, err := j.Score(context.Background(), pred, "Revenue was $1,000 million")
	require.NoError(t, err)
	// numeric still passes locally; the model-judged criteria default false
	assert.True(t, rec.NumericalAccuracy)
	assert.False(t, rec.SemanticEquivalence)
	assert.False(t, rec.FormatConsistency)
	assert.Zero(t, rec.ReasoningQuality)
}

func TestScoreIdempotent(t *testing.T) {
	client := &deterministicClient{reply: `{"verdict":true,"score":0.7,"explanation":"ok"}`}
	j := NewJudge(client, Config{}, nil)

	first, err := j.Score(context.Background(), pred, "Revenue was $1,000 million")
	require.NoError(t, err)
	second, err := j.Score(context.Background(), pred, "Revenue was $1,000 million")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
