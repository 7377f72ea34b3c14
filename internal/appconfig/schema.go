// internal/appconfig/schema.go
package appconfig

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema describes the accepted configuration file. Unknown keys are
// rejected so typos do not silently fall back to defaults.
const configSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "submissionsDir": {"type": "string", "minLength": 1},
    "report":         {"type": "string", "minLength": 1},
    "export":         {"type": "string"},
    "logFile":        {"type": "string"},
    "debug":          {"type": "boolean"},
    "tui":            {"type": "boolean"},
    "keep":           {"type": "boolean"},
    "workers":        {"type": "integer", "minimum": 0},
    "compileTimeout": {"type": "integer", "minimum": 0},
    "testTimeout":    {"type": "integer", "minimum": 0}
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(configSchema)

// Validate checks raw JSON configuration against the configuration schema.
func Validate(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return errors.New(strings.Join(problems, "; "))
}
