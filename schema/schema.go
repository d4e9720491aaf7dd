// Package schema validates cucumber JSON result documents before they are decoded.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const resultsSchemaName = "cucumber-results.schema.json"

//go:embed cucumber-results.schema.json
var schemaFS embed.FS

var (
	resultsSchema *jsonschema.Schema
	compileOnce   sync.Once
	compileErr    error
)

// compileSchema compiles the embedded schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		data, err := schemaFS.ReadFile(resultsSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("read results schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal results schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(resultsSchemaName, doc); err != nil {
			compileErr = fmt.Errorf("add results schema resource: %w", err)
			return
		}

		resultsSchema, err = compiler.Compile(resultsSchemaName)
		if err != nil {
			compileErr = fmt.Errorf("compile results schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateResults validates raw JSON against the cucumber results schema.
func ValidateResults(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := resultsSchema.Validate(v); err != nil {
		return fmt.Errorf("results validation failed: %w", err)
	}

	return nil
}
