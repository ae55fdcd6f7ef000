// Package schema provides deterministic structural validation of
// project-state documents against their declared shape. The schema is
// closed: unknown properties anywhere in the document are violations.
package schema

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed project_state.schema.json
var projectStateSchema string

var compiled = mustCompile()

func mustCompile() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource("project_state.schema.json", strings.NewReader(projectStateSchema)); err != nil {
		panic(fmt.Sprintf("schema: add resource: %v", err))
	}
	return c.MustCompile("project_state.schema.json")
}

// Violation is one schema violation at a dot-joined document path.
type Violation struct {
	Path    string
	Message string
}

// String renders the violation as "path: message".
func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// Validate checks a decoded JSON document and returns the first violation
// found, or nil when the document conforms.
func Validate(doc any) error {
	violations := collect(doc)
	if len(violations) == 0 {
		return nil
	}
	return fmt.Errorf("schema violation at %s", violations[0])
}

// IsValid reports whether the document conforms to the schema.
func IsValid(doc any) bool {
	return len(collect(doc)) == 0
}

// ValidationErrors returns every violation in the document as
// human-readable "path: message" strings, sorted by path. Empty when the
// document is valid.
func ValidationErrors(doc any) []string {
	violations := collect(doc)
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.String()
	}
	return out
}

// StateValidationErrors validates any JSON-marshalable value, typically a
// *state.ProjectState, by round-tripping it through JSON first.
func StateValidationErrors(v any) ([]string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return ValidationErrors(doc), nil
}

func collect(doc any) []Violation {
	err := compiled.Validate(doc)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Violation{{Path: "root", Message: err.Error()}}
	}

	violations := flatten(ve)
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Message < violations[j].Message
	})
	return violations
}

// flatten walks the validation error tree and keeps the leaves, which
// carry the concrete per-location messages.
func flatten(ve *jsonschema.ValidationError) []Violation {
	if len(ve.Causes) == 0 {
		return []Violation{{Path: dotPath(ve.InstanceLocation), Message: ve.Message}}
	}
	var out []Violation
	for _, cause := range ve.Causes {
		out = append(out, flatten(cause)...)
	}
	return out
}

// dotPath converts a JSON pointer like /features/core/0 to the dot-joined
// form features.core.0, using "root" for the document root.
func dotPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return "root"
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		p = strings.ReplaceAll(p, "~0", "~")
		parts[i] = p
	}
	return strings.Join(parts, ".")
}
