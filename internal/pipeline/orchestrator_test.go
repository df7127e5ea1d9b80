package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minionslab/minions-finance/internal/entity"
)

type stubRetriever struct {
	snippets []entity.Snippet
	err      error
}

func (s *stubRetriever) Retrieve(context.Context, entity.Question, string) ([]entity.Snippet, bool, error) {
	return s.snippets, false, s.err
}

type stubExtractor struct {
	items []entity.LineItem
	err   error
}

func (s *stubExtractor) Extract(context.Context, entity.Question, []entity.Snippet) ([]entity.LineItem, bool, error) {
	return s.items, false, s.err
}

type stubCalculator struct {
	result entity.CalculationResult
	err    error
}

func (s *stubCalculator) Calculate(context.Context, entity.Question, []entity.LineItem) (entity.CalculationResult, bool, error) {
	return s.result, false, s.err
}

type stubAggregator struct {
	err error
}

func (s *stubAggregator) Aggregate(_ context.Context, q entity.Question, items []entity.LineItem, calc entity.CalculationResult) (entity.FinalAnswer, error) {
	if s.err != nil {
		return entity.FinalAnswer{}, s.err
	}
	if calc.Result == nil && len(items) == 0 {
		return entity.FinalAnswer{QuestionID: q.ID, Text: "Unable to answer: nothing found.", IsValid: false}, nil
	}
	text := "answered"
	if calc.Result != nil {
		text = fmt.Sprintf("The result is %g.", *calc.Result)
	}
	return entity.FinalAnswer{QuestionID: q.ID, Text: text, IsValid: true}, nil
}

var q = entity.Question{ID: "fb-042", Text: "What was net income?"}

func TestOrchestratorHappyPath(t *testing.T) {
	result := 200.0
	orch := NewOrchestrator(
		&stubRetriever{snippets: []entity.Snippet{{Text: "revenue 500, expenses 300"}}},
		&stubExtractor{items: []entity.LineItem{
			{Label: "revenue", Value: 500}, {Label: "expenses", Value: 300},
		}},
		&stubCalculator{result: entity.CalculationResult{
			Operation: entity.OpDifference, Result: &result, Explanation: "500 - 300",
		}},
		&stubAggregator{},
		nil,
	)

	answer, state := orch.Run(context.Background(), q, "document")
	assert.Equal(t, StateDone, state)
	assert.True(t, answer.IsValid)
	assert.Contains(t, answer.Text, "200")
	assert.NotEmpty(t, answer.SupportingTrace)
}

func TestOrchestratorEmptyRetrievalStillCompletes(t *testing.T) {
	// no snippets, no items, no result: the run finishes Done with a
	// caveated invalid answer, not Failed
	orch := NewOrchestrator(
		&stubRetriever{},
		&stubExtractor{},
		&stubCalculator{result: entity.CalculationResult{Operation: entity.OpOther, Explanation: "nothing to compute"}},
		&stubAggregator{},
		nil,
	)

	answer, state := orch.Run(context.Background(), q, "document")
	assert.Equal(t, StateDone, state)
	assert.False(t, answer.IsValid)
	assert.Contains(t, answer.Text, "Unable to answer")
}

func TestOrchestratorModelFailureAtRetriever(t *testing.T) {
	orch := NewOrchestrator(
		&stubRetriever{err: errors.New("api unavailable")},
		&stubExtractor{},
		&stubCalculator{},
		&stubAggregator{},
		nil,
	)

	answer, state := orch.Run(context.Background(), q, "document")
	assert.Equal(t, StateFailed, state)
	assert.False(t, answer.IsValid)
	assert.True(t, strings.HasPrefix(answer.Text, entity.ErrorMarker))
	assert.Contains(t, answer.Text, "retrieving")
}

func TestOrchestratorModelFailureAtAggregator(t *testing.T) {
	orch := NewOrchestrator(
		&stubRetriever{snippets: []entity.Snippet{{Text: "x"}}},
		&stubExtractor{items: []entity.LineItem{{Label: "revenue", Value: 500}}},
		&stubCalculator{result: entity.CalculationResult{Operation: entity.OpOther}},
		&stubAggregator{err: errors.New("timeout")},
		nil,
	)

	answer, state := orch.Run(context.Background(), q, "document")
	assert.Equal(t, StateFailed, state)
	assert.Contains(t, answer.Text, "aggregating")
	// the trace keeps everything up to the failure
	assert.NotEmpty(t, answer.SupportingTrace)
}

func TestRunnerRunAllKeepsTaskOrder(t *testing.T) {
	result := 200.0
	orch := NewOrchestrator(
		&stubRetriever{snippets: []entity.Snippet{{Text: "x"}}},
		&stubExtractor{items: []entity.LineItem{{Label: "revenue", Value: 500}}},
		&stubCalculator{result: entity.CalculationResult{Operation: entity.OpDifference, Result: &result}},
		&stubAggregator{},
		nil,
	)
	runner := NewRunner(orch, 2, "", nil)

	tasks := []Task{
		{Question: entity.Question{ID: "q-1", Text: "a?"}, Document: "d1"},
		{Question: entity.Question{ID: "q-2", Text: "b?"}, Document: "d2"},
		{Question: entity.Question{ID: "q-3", Text: "c?"}, Document: "d3"},
	}
	answers, err := runner.RunAll(context.Background(), tasks)
	require.NoError(t, err)
	require.Len(t, answers, 3)
	for i, a := range answers {
		assert.Equal(t, tasks[i].Question.ID, a.QuestionID)
	}
}

func TestRunnerWritesTraces(t *testing.T) {
	orch := NewOrchestrator(
		&stubRetriever{},
		&stubExtractor{},
		&stubCalculator{result: entity.CalculationResult{Operation: entity.OpOther}},
		&stubAggregator{},
		nil,
	)
	dir := t.TempDir()
	runner := NewRunner(orch, 1, dir, nil)

	_, err := runner.RunAll(context.Background(), []Task{
		{Question: entity.Question{ID: "q-trace", Text: "a?"}, Document: "d"},
	})
	require.NoError(t, err)
	assert.FileExists(t, dir+"/q-trace.json")
}
