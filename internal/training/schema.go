package training

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// documentSchema describes the logs slot: day -> exercise -> "0".."3" -> record.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "additionalProperties": {
      "type": "object",
      "patternProperties": {
        "^[0-3]$": {
          "type": "object",
          "properties": {
            "weight": {"type": "string"},
            "reps": {"type": "string"}
          }
        }
      },
      "additionalProperties": false
    }
  }
}`

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(documentSchema))
})

// SchemaError lists every place where a document breaks the log layout.
type SchemaError struct {
	Violations []Violation
}

// Violation is a single schema failure at a JSON field path.
type Violation struct {
	Field   string
	Message string
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("log document does not match schema:")
	for _, v := range e.Violations {
		fmt.Fprintf(&sb, " %s: %s;", v.Field, v.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Validate checks data against the log layout without decoding it.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile log schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("parse log document: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{}
	for _, re := range result.Errors() {
		schemaErr.Violations = append(schemaErr.Violations, Violation{
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return schemaErr
}
