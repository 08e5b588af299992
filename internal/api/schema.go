package api

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Response shapes the assessment protocol allows. A payload matching
// none of a call's shapes is a protocol violation and aborts the flow,
// so shape checking happens here rather than in every caller.

var nextQuestionSchema = &protocolSchema{
	name: "next-question",
	definition: map[string]any{
		"type": "object",
		"oneOf": []any{
			map[string]any{
				"properties": map[string]any{
					"stageComplete": map[string]any{"const": true},
				},
				"required": []any{"stageComplete"},
			},
			map[string]any{
				"properties": map[string]any{
					"question": map[string]any{
						"type":     "object",
						"required": []any{"id"},
					},
					"options": map[string]any{
						"type":     "array",
						"minItems": 1,
					},
				},
				"required": []any{"question", "options"},
			},
		},
	},
}

var advanceStageSchema = &protocolSchema{
	name: "advance-stage",
	definition: map[string]any{
		"type": "object",
		"oneOf": []any{
			map[string]any{
				"properties": map[string]any{
					"finished": map[string]any{"const": true},
				},
				"required": []any{"finished"},
			},
			map[string]any{
				"properties": map[string]any{
					"nextStage": map[string]any{"type": "string", "minLength": 1},
				},
				"required": []any{"nextStage"},
			},
		},
	},
}

type protocolSchema struct {
	name       string
	definition map[string]any
}

var schemaCache sync.Map // map[string]*jsonschema.Schema

// checkShape validates raw against the schema, wrapping any mismatch in
// ErrProtocol so the orchestrator treats it as fatal.
func checkShape(schema *protocolSchema, raw json.RawMessage) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: invalid JSON in %s response: %v", ErrProtocol, schema.name, err)
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return fmt.Errorf("compile %s schema: %w", schema.name, err)
	}

	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("%w: %s response matched no known shape", ErrProtocol, schema.name)
	}
	return nil
}

func compiledSchema(schema *protocolSchema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a parsed JSON value; round-trip the definition
	// to strip Go-specific types.
	defBytes, err := json.Marshal(schema.definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", schema.name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.name, compiled)
	return compiled, nil
}
