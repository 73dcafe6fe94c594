package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed zoo.schema.json
var manifestSchema []byte

var (
	compiledSchema *gojsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// SchemaIssue is a single schema violation with its field path.
type SchemaIssue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SchemaResult holds the outcome of validating manifest bytes against the
// embedded JSON Schema.
type SchemaResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

func schema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		loader := gojsonschema.NewBytesLoader(manifestSchema)
		compiledSchema, compileErr = gojsonschema.NewSchema(loader)
	})
	return compiledSchema, compileErr
}

// ValidateSchema checks raw manifest YAML against the embedded schema.
// The YAML is decoded generically and re-encoded as canonical JSON for the
// schema engine; yaml.v3 produces string-keyed maps so the round trip is safe.
func ValidateSchema(data []byte) (*SchemaResult, error) {
	sch, err := schema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile manifest schema: %w", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest to JSON: %w", err)
	}

	result, err := sch.Validate(gojsonschema.NewBytesLoader(docJSON))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	res := &SchemaResult{Valid: result.Valid()}
	for _, verr := range result.Errors() {
		field := verr.Field()
		if field == "" {
			field = "root"
		}
		res.Issues = append(res.Issues, SchemaIssue{Path: field, Message: verr.Description()})
	}
	return res, nil
}
