// internal/adapters/store/schema.go
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// stateSchema is the structural contract of targets.json. Cardinality is
// enforced here too, so a malformed document is rejected before it ever
// reaches the verifier.
const stateSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["results"],
  "properties": {
    "results": {
      "type": "array",
      "minItems": 10,
      "maxItems": 10,
      "items": {
        "type": "object",
        "required": ["company", "status", "proof"],
        "properties": {
          "company": {"type": "string", "minLength": 1},
          "url": {"type": "string"},
          "status": {
            "type": "string",
            "enum": ["PENDING", "IN_PROGRESS", "COMPLETE", "BLOCKED", "FAILED"]
          },
          "proof": {
            "type": "object",
            "required": ["text_hits", "url_match", "screenshot"],
            "properties": {
              "text_hits": {"type": "array", "items": {"type": "string"}},
              "url_match": {"type": "boolean"},
              "screenshot": {"type": "string"}
            }
          },
          "attempt_count": {"type": "integer", "minimum": 0},
          "last_error": {"type": "string"}
        }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("targets.schema.json", stateSchema)
	})
	return schema, schemaErr
}

// validateDocument checks raw JSON against the state schema.
func validateDocument(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile state schema: %w", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	return sch.Validate(doc)
}
