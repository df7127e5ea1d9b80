package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/minionslab/minions-finance/internal/common"
)

// Schema is one agent's compiled response contract: the schema text sent to
// the model inside the prompt, and the compiled validator applied to its
// reply. Compiling happens once, at package init, not per call.
type Schema struct {
	compiled *jsonschema.Schema
	text     string
}

// CompileSchema compiles a schema document given as a generic map.
func CompileSchema(doc map[string]any) (*Schema, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Schema{compiled: compiled, text: string(b)}, nil
}

// mustCompileSchema backs the package-level schema singletons; the documents
// are static, so a failure here is a programming error.
func mustCompileSchema(doc map[string]any) *Schema {
	s, err := CompileSchema(doc)
	if err != nil {
		panic(err)
	}
	return s
}

// JSON returns the schema text appended to prompts.
func (s *Schema) JSON() string { return s.text }

// Validate checks a model reply against the schema. Failures carry
// common.ErrParse: the reply could not be decoded into its expected shape.
func (s *Schema) Validate(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.NewAppError("PARSE", fmt.Sprintf("decode reply: %v", err), common.ErrParse)
	}
	if err := s.compiled.Validate(v); err != nil {
		return common.NewAppError("PARSE", fmt.Sprintf("reply does not match schema: %v", err), common.ErrParse)
	}
	return nil
}
