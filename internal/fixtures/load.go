// internal/fixtures/load.go
package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// suiteSchema validates user-supplied fixture suites before they are trusted
// by the pipeline. Every table must be present and non-empty so downstream
// sample counts can never be zero.
const suiteSchema = `{
  "type": "object",
  "required": ["name", "version", "performance_prompts", "quality_cases", "hallucination_probes", "uncertainty_markers", "mmlu", "truthfulqa", "hellaswag"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "performance_prompts": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "quality_cases": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["prompt", "expected"],
        "properties": {
          "prompt": {"type": "string", "minLength": 1},
          "expected": {"type": "string", "minLength": 1}
        }
      }
    },
    "hallucination_probes": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "uncertainty_markers": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}},
    "mmlu": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "choices", "answer"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "choices": {"type": "array", "minItems": 2, "items": {"type": "string"}},
          "answer": {"type": "string", "minLength": 1}
        }
      }
    },
    "truthfulqa": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["question", "expect_uncertainty"],
        "properties": {
          "question": {"type": "string", "minLength": 1},
          "expect_uncertainty": {"type": "boolean"}
        }
      }
    },
    "hellaswag": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["context", "correct_ending", "wrong_ending"],
        "properties": {
          "context": {"type": "string", "minLength": 1},
          "correct_ending": {"type": "string", "minLength": 1},
          "wrong_ending": {"type": "string", "minLength": 1}
        }
      }
    }
  }
}`

// Load reads a fixture suite from a JSON file and validates it against the
// suite schema.
func Load(path string) (Suite, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("error reading fixture suite: %w", err)
	}

	if err := Validate(raw); err != nil {
		return Suite{}, err
	}

	var suite Suite
	if err := json.Unmarshal(raw, &suite); err != nil {
		return Suite{}, fmt.Errorf("error parsing fixture suite: %w", err)
	}

	return suite, nil
}

// Validate checks raw JSON against the fixture suite schema.
func Validate(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(suiteSchema)
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("fixture suite failed validation: %s", strings.Join(details, "; "))
}

// Resolve returns the suite at path when provided, otherwise the built-in
// default suite.
func Resolve(path string) (Suite, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}
