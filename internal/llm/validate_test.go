package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minionslab/minions-finance/internal/common"
)

func TestRetrieverSchemaValidate(t *testing.T) {
	valid := []byte(`{"snippets":[{"source_span":"p. 12","text":"Revenue was $500 million"}],"explanation":"found it"}`)
	assert.NoError(t, RetrieverSchema.Validate(valid))

	emptyList := []byte(`{"snippets":[]}`)
	assert.NoError(t, RetrieverSchema.Validate(emptyList))

	missingSnippets := []byte(`{"explanation":"nothing"}`)
	assert.Error(t, RetrieverSchema.Validate(missingSnippets))

	emptyText := []byte(`{"snippets":[{"text":""}]}`)
	assert.Error(t, RetrieverSchema.Validate(emptyText))
}

func TestLineItemSchemaValueTypes(t *testing.T) {
	numberValue := []byte(`{"items":[{"label":"revenue","value":500000000,"unit":"usd","snippet":0}]}`)
	assert.NoError(t, LineItemSchema.Validate(numberValue))

	stringValue := []byte(`{"items":[{"label":"revenue","value":"$500 million"}]}`)
	assert.NoError(t, LineItemSchema.Validate(stringValue))

	boolValue := []byte(`{"items":[{"label":"revenue","value":true}]}`)
	assert.Error(t, LineItemSchema.Validate(boolValue))
}

func TestCalculatorSchemaValidate(t *testing.T) {
	valid := []byte(`{"operation":"difference","operands":[{"label":"a","value":500},{"label":"b","value":300}],"result":200,"explanation":"a minus b"}`)
	assert.NoError(t, CalculatorSchema.Validate(valid))

	percentChange := []byte(`{"operation":"percent_change","operands":[{"label":"initial","value":100},{"label":"final","value":150}],"result":null,"explanation":"change"}`)
	assert.NoError(t, CalculatorSchema.Validate(percentChange))

	nullResult := []byte(`{"operation":"other","operands":[],"result":null,"explanation":"nothing to compute"}`)
	assert.NoError(t, CalculatorSchema.Validate(nullResult))

	unknownOp := []byte(`{"operation":"integrate","operands":[],"result":null,"explanation":"x"}`)
	assert.Error(t, CalculatorSchema.Validate(unknownOp))

	// stated strings fail strict validation and are routed to sanitize
	stringResult := []byte(`{"operation":"sum","operands":[],"result":"$150","explanation":"x"}`)
	assert.Error(t, CalculatorSchema.Validate(stringResult))

	missingExplanation := []byte(`{"operation":"sum","operands":[],"result":null}`)
	assert.Error(t, CalculatorSchema.Validate(missingExplanation))
}

func TestJudgeSchemaValidate(t *testing.T) {
	valid := []byte(`{"verdict":true,"score":0.8,"explanation":"matches"}`)
	assert.NoError(t, JudgeSchema.Validate(valid))

	noVerdict := []byte(`{"score":0.8,"explanation":"matches"}`)
	assert.Error(t, JudgeSchema.Validate(noVerdict))

	scoreOutOfRange := []byte(`{"verdict":true,"score":1.5,"explanation":"matches"}`)
	assert.Error(t, JudgeSchema.Validate(scoreOutOfRange))
}

func TestValidateFailuresCarryParseError(t *testing.T) {
	err := JudgeSchema.Validate([]byte(`{"score":0.8}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrParse)

	err = RetrieverSchema.Validate([]byte(`not even json`))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrParse)
}

func TestSchemaJSONIsPromptReady(t *testing.T) {
	text := CalculatorSchema.JSON()
	assert.True(t, strings.Contains(text, `"percent_change"`))
	assert.True(t, strings.Contains(text, `"operation"`))
}
