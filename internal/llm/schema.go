package llm

import "github.com/minionslab/minions-finance/internal/entity"

// Response contracts (JSON-Schema draft 2020-12 subset) for every structured
// model reply, compiled once at init. Each is sent to the model as an output
// constraint and used locally to validate the reply before decoding.
var (
	RetrieverSchema  = mustCompileSchema(retrieverSchemaDoc())
	LineItemSchema   = mustCompileSchema(lineItemSchemaDoc())
	CalculatorSchema = mustCompileSchema(calculatorSchemaDoc(entity.OperationNames()))
	AggregatorSchema = mustCompileSchema(aggregatorSchemaDoc())
	JudgeSchema      = mustCompileSchema(judgeSchemaDoc())
)

// retrieverSchemaDoc constrains the retriever agent's reply: an ordered list
// of snippets, most relevant first.
func retrieverSchemaDoc() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"snippets": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"source_span": map[string]any{"type": "string"},
						"text":        map[string]any{"type": "string", "minLength": 1},
					},
					"required": []string{"text"},
				},
			},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []string{"snippets"},
	}
}

// lineItemSchemaDoc constrains the finance agent's reply: labeled figures
// lifted from the snippets. Values may arrive as numbers or as stated text
// ("$1.2 billion"); the caller normalizes.
func lineItemSchemaDoc() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"label":   map[string]any{"type": "string", "minLength": 1},
						"value":   map[string]any{"type": []string{"number", "string"}},
						"unit":    map[string]any{"type": "string"},
						"snippet": map[string]any{"type": "integer"},
					},
					"required": []string{"label", "value"},
				},
			},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []string{"items"},
	}
}

// calculatorSchemaDoc constrains the calculator agent's reply. Values are
// strictly numeric here; replies carrying stated strings ("$150") go through
// the lenient sanitize pass instead.
func calculatorSchemaDoc(operations []string) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"operation": map[string]any{"type": "string", "enum": operations},
			"operands": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"label": map[string]any{"type": "string"},
						"value": map[string]any{"type": "number"},
					},
					"required": []string{"label", "value"},
				},
			},
			"result":      map[string]any{"type": []string{"number", "null"}},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []string{"operation", "operands", "explanation"},
	}
}

// aggregatorSchemaDoc constrains the aggregator agent's reply.
func aggregatorSchemaDoc() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"final_answer": map[string]any{"type": "string", "minLength": 1},
			"explanation":  map[string]any{"type": "string"},
			"confidence":   map[string]any{"type": "string", "enum": []string{"high", "medium", "low"}},
		},
		"required": []string{"final_answer"},
	}
}

// judgeSchemaDoc constrains a single judge criterion reply.
func judgeSchemaDoc() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"verdict":     map[string]any{"type": "boolean"},
			"score":       map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"explanation": map[string]any{"type": "string"},
		},
		"required": []string{"verdict", "explanation"},
	}
}
