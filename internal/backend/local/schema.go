package local

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todos/internal/service"
)

const slotSchemaURL = "todos://local/todos.schema.json"

// slotSchemaJSON describes a usable slot: a non-empty array of todos.
const slotSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["id", "text", "completed"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "text": {"type": "string"},
      "completed": {"type": "boolean"}
    }
  }
}`

var slotSchema = jsonschema.MustCompileString(slotSchemaURL, slotSchemaJSON)

// decode parses slot contents, rejecting anything that is not a non-empty
// list of todos.
func decode(data []byte) ([]service.Todo, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse slot: %w", err)
	}
	if err := slotSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate slot: %w", err)
	}

	var todos []service.Todo
	if err := json.Unmarshal(data, &todos); err != nil {
		return nil, fmt.Errorf("decode slot: %w", err)
	}
	return todos, nil
}

// isEmptyList reports whether data is a JSON array with no elements.
func isEmptyList(data []byte) bool {
	var items []json.RawMessage
	return json.Unmarshal(data, &items) == nil && items != nil && len(items) == 0
}
