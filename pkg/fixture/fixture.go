package fixture

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Kind names a fixture document kind.
type Kind string

// Fixture document kinds.
const (
	KindPatterns Kind = "patterns"
	KindSchema   Kind = "schema"
	KindData     Kind = "data"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	compileOnce sync.Once
	compiled    map[Kind]*jsonschema.Schema
	compileErr  error
)

// FieldError is a single schema violation.
type FieldError struct {
	// Field is the dotted location inside the document, "" for the root.
	Field   string
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationError reports every violation found in one document.
type ValidationError struct {
	Kind   Kind
	Source string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid ")
	sb.WriteString(string(e.Kind))
	sb.WriteString(" fixture")
	if e.Source != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Source)
	}
	for _, fe := range e.Errors {
		sb.WriteString("\n  - ")
		sb.WriteString(fe.String())
	}
	return sb.String()
}

// Validate checks doc against the schema for kind.
// It returns a *ValidationError when doc violates the schema.
func Validate(kind Kind, doc any) error {
	return validate(kind, "", doc)
}

// ValidateYAML decodes data as YAML and validates it. source names the
// document in error messages. The decoded document is returned for reuse.
func ValidateYAML(kind Kind, source string, data []byte) (any, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	if err := validate(kind, source, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func validate(kind Kind, source string, doc any) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}

	// Round-trip through JSON so YAML-decoded values have JSON types.
	normalized, err := normalize(doc)
	if err != nil {
		return fmt.Errorf("normalize %s fixture: %w", kind, err)
	}

	err = schema.Validate(normalized)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	result := &ValidationError{Kind: kind, Source: source}
	collectErrors(ve, result)
	return result
}

func schemaFor(kind Kind) (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = compileAll()
	})
	if compileErr != nil {
		return nil, compileErr
	}
	s, ok := compiled[kind]
	if !ok {
		return nil, fmt.Errorf("unknown fixture kind %q", kind)
	}
	return s, nil
}

func compileAll() (map[Kind]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	kinds := []Kind{KindPatterns, KindSchema, KindData}
	for _, k := range kinds {
		data, err := schemaFS.ReadFile("schemas/" + string(k) + ".json")
		if err != nil {
			return nil, fmt.Errorf("read %s schema: %w", k, err)
		}
		if err := compiler.AddResource(resourceName(k), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("add %s schema resource: %w", k, err)
		}
	}

	out := make(map[Kind]*jsonschema.Schema, len(kinds))
	for _, k := range kinds {
		s, err := compiler.Compile(resourceName(k))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

func resourceName(k Kind) string {
	return string(k) + ".json"
}

func normalize(doc any) (any, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out any
	err = json.Unmarshal(data, &out)
	return out, err
}

func collectErrors(err *jsonschema.ValidationError, result *ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, FieldError{
			Field:   fieldFromPointer(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}
	for _, cause := range err.Causes {
		collectErrors(cause, result)
	}
}

// fieldFromPointer turns a JSON Pointer into dot notation.
func fieldFromPointer(path string) string {
	if path == "" || path == "/" {
		return ""
	}
	path = strings.TrimPrefix(path, "/")
	return strings.ReplaceAll(path, "/", ".")
}
