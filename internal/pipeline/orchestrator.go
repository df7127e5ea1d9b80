package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/minionslab/minions-finance/internal/entity"
)

// State is where a pipeline run currently is. Failed is terminal and only
// reachable through a model-call failure; degraded or empty stage output
// keeps the run in-pipeline.
type State string

const (
	StateRetrieving  State = "retrieving"
	StateExtracting  State = "extracting"
	StateCalculating State = "calculating"
	StateAggregating State = "aggregating"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Stage interfaces, one per agent, so the orchestrator can be driven by
// stubs in tests. The bool result reports a recovered parse failure.

type RetrieverStage interface {
	Retrieve(ctx context.Context, q entity.Question, document string) ([]entity.Snippet, bool, error)
}

type ExtractorStage interface {
	Extract(ctx context.Context, q entity.Question, snippets []entity.Snippet) ([]entity.LineItem, bool, error)
}

type CalculatorStage interface {
	Calculate(ctx context.Context, q entity.Question, items []entity.LineItem) (entity.CalculationResult, bool, error)
}

type AggregatorStage interface {
	Aggregate(ctx context.Context, q entity.Question, items []entity.LineItem, calc entity.CalculationResult) (entity.FinalAnswer, error)
}

// Orchestrator sequences the four agents for one question. Every stage's
// output, even degraded or empty, feeds the next stage; only a model-call
// failure aborts the run, and then the result is still a FinalAnswer — marked
// invalid, with the Error prefix evaluation looks for.
type Orchestrator struct {
	retriever  RetrieverStage
	extractor  ExtractorStage
	calculator CalculatorStage
	aggregator AggregatorStage
	log        *slog.Logger
}

func NewOrchestrator(r RetrieverStage, e ExtractorStage, c CalculatorStage, a AggregatorStage, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{retriever: r, extractor: e, calculator: c, aggregator: a, log: logger}
}

// Run drives one question through the pipeline and returns its FinalAnswer
// and the terminal state. It does not return an error: failure is a marked
// answer, not a fault.
func (o *Orchestrator) Run(ctx context.Context, q entity.Question, document string) (entity.FinalAnswer, State) {
	var trace []entity.TraceStep
	record := func(stage State, detail string) {
		trace = append(trace, entity.TraceStep{Stage: string(stage), Detail: detail})
	}

	state := StateRetrieving
	snippets, parseFailed, err := o.retriever.Retrieve(ctx, q, document)
	if err != nil {
		return o.failed(q, state, err, trace)
	}
	record(state, fmt.Sprintf("%d snippets (parse_failed=%t)", len(snippets), parseFailed))
	o.log.Info("pipeline.retrieve.ok", "question_id", q.ID, "snippets", len(snippets), "parse_failed", parseFailed)

	state = StateExtracting
	items, parseFailed, err := o.extractor.Extract(ctx, q, snippets)
	if err != nil {
		return o.failed(q, state, err, trace)
	}
	for _, it := range items {
		b, _ := json.Marshal(it)
		record(state, string(b))
	}
	if len(items) == 0 {
		record(state, fmt.Sprintf("no line items (parse_failed=%t)", parseFailed))
	}
	o.log.Info("pipeline.extract.ok", "question_id", q.ID, "items", len(items), "parse_failed", parseFailed)

	state = StateCalculating
	calc, parseFailed, err := o.calculator.Calculate(ctx, q, items)
	if err != nil {
		return o.failed(q, state, err, trace)
	}
	b, _ := json.Marshal(calc)
	record(state, string(b))
	o.log.Info("pipeline.calculate.ok",
		"question_id", q.ID, "operation", string(calc.Operation),
		"has_result", calc.Result != nil, "parse_failed", parseFailed)

	state = StateAggregating
	answer, err := o.aggregator.Aggregate(ctx, q, items, calc)
	if err != nil {
		return o.failed(q, state, err, trace)
	}
	record(state, answer.Text)

	answer.SupportingTrace = trace
	o.log.Info("pipeline.done", "question_id", q.ID, "is_valid", answer.IsValid)
	return answer, StateDone
}

func (o *Orchestrator) failed(q entity.Question, at State, err error, trace []entity.TraceStep) (entity.FinalAnswer, State) {
	o.log.Error("pipeline.failed", "question_id", q.ID, "stage", string(at), "error", err)
	trace = append(trace, entity.TraceStep{Stage: string(StateFailed), Detail: err.Error()})
	return entity.FinalAnswer{
		QuestionID:      q.ID,
		Text:            fmt.Sprintf("%s: pipeline failed at %s stage: %v", entity.ErrorMarker, at, err),
		SupportingTrace: trace,
		IsValid:         false,
	}, StateFailed
}
