package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/yantoz/finderex/pkg/yaml"
)

const schemaURL = "/config.schema.json"

// Schema returns the JSON schema of a configuration [Document].
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		BaseSchemaID: "https://github.com/yantoz/finderex",
	}

	b, err := json.MarshalIndent(r.Reflect(Document{}), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

// DefaultValidator returns a [yaml.Validator] for the document schema.
var DefaultValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	schemaJSON, err := Schema()
	if err != nil {
		return nil, err
	}

	v, err := yaml.NewValidator(schemaURL, schemaJSON)
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	return v, nil
})
