// Package schema checks forkcheck configuration documents against the
// embedded JSON schema.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/AndreyAkinshin/forkcheck/schema"
)

// ConfigSchemaName is the resource name of the embedded config schema.
const ConfigSchemaName = "config.schema.json"

// configSchema compiles the embedded schema on first use.
var configSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := schemafs.FS.ReadFile(ConfigSchemaName)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigSchemaName, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigSchemaName, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(ConfigSchemaName, doc); err != nil {
		return nil, fmt.Errorf("register %s: %w", ConfigSchemaName, err)
	}
	s, err := c.Compile(ConfigSchemaName)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", ConfigSchemaName, err)
	}
	return s, nil
})

// ValidateConfig checks raw JSON against the config schema.
func ValidateConfig(data []byte) error {
	s, err := configSchema()
	if err != nil {
		return err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := s.Validate(inst); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ValidateDocument checks an already decoded document, such as parsed YAML.
// It is re-encoded as JSON so numbers reach the validator as json.Number.
func ValidateDocument(doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode config document: %w", err)
	}
	return ValidateConfig(data)
}
