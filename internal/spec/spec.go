// Package spec loads task specifications from YAML or JSON, validates them
// against the embedded TaskSpec schema, and injects defaults. Everything
// downstream of this package assumes a well-formed spec.
package spec

import (
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/metalagman/axiom/internal/model"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

// ValidationError reports schema violations for a task document.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("task spec validation failed: %s", strings.Join(e.Errors, "; "))
}

// NewID returns a short random hex identifier for tasks and runs.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:6])
}

// Validate checks raw task data against the TaskSpec schema. It returns a
// *ValidationError listing every violation, sorted for stable output.
func Validate(raw map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewGoLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate task schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)

	return &ValidationError{Errors: errs}
}

// applyDefaults fills in the optional fields the schema leaves open:
// a generated task id, the 0.02 m safety buffer, and an empty zone list.
func applyDefaults(raw map[string]any) {
	if _, ok := raw["task_id"]; !ok {
		raw["task_id"] = NewID()
	}

	env, ok := raw["environment"].(map[string]any)
	if !ok {
		env = map[string]any{}
		raw["environment"] = env
	}
	if _, ok := env["safety_buffer"]; !ok {
		env["safety_buffer"] = 0.02
	}
	if _, ok := env["keepout_zones"]; !ok {
		env["keepout_zones"] = []any{}
	}
}

// Parse decodes a YAML or JSON task document, applies defaults, validates
// it, and returns the typed spec.
func Parse(data []byte) (model.TaskSpec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return model.TaskSpec{}, fmt.Errorf("parse task document: %w", err)
	}
	if raw == nil {
		return model.TaskSpec{}, fmt.Errorf("parse task document: empty input")
	}

	applyDefaults(raw)

	if err := Validate(raw); err != nil {
		return model.TaskSpec{}, err
	}

	// Round-trip through JSON to decode into the typed spec.
	buf, err := json.Marshal(raw)
	if err != nil {
		return model.TaskSpec{}, fmt.Errorf("encode task document: %w", err)
	}
	var out model.TaskSpec
	if err := json.Unmarshal(buf, &out); err != nil {
		return model.TaskSpec{}, fmt.Errorf("decode task spec: %w", err)
	}
	return out, nil
}

// Load reads and parses a task spec file.
func Load(path string) (model.TaskSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.TaskSpec{}, fmt.Errorf("read task file: %w", err)
	}
	return Parse(data)
}

// Revalidate runs an already-typed spec back through the schema validator.
// The sweep engine uses this to reject generated variants that fall outside
// the schema's invariants.
func Revalidate(ts model.TaskSpec) error {
	buf, err := json.Marshal(ts)
	if err != nil {
		return fmt.Errorf("encode task spec: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(buf, &raw); err != nil {
		return fmt.Errorf("decode task spec: %w", err)
	}
	return Validate(raw)
}
