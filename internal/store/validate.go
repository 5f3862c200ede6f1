package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "embed"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/task-cli/internal/task"
)

//go:embed tasks.schema.json
var embeddedSchema string

// embeddedSchemaURL names the embedded schema inside the compiler. It is
// never fetched.
const embeddedSchemaURL = "https://github.com/nibzard/task-cli/tasks.schema.json"

// placeholderContent is an empty collection written as a single empty
// object. It is read as "no tasks".
var placeholderContent = []byte("[{}]")

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location, e.g. "[2].statusCode"
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationOptions controls validation behavior.
type ValidationOptions struct {
	// SchemaPath is a JSON Schema file that replaces the embedded schema.
	// If it cannot be read or compiled, validation falls back to
	// minimal checks.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Tasks      int // records with an ID
	Errors     []error
	Warnings   []string
	UsedSchema bool
}

// Validate checks the task file at path. A missing or empty file is valid.
func Validate(path string, opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if isNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("task file not found: %s", path))
			return result
		}
		result.fail("", fmt.Errorf("read task file: %w", err))
		return result
	}
	content := bytes.TrimSpace(data)
	if len(content) == 0 {
		result.Warnings = append(result.Warnings, "task file is empty")
		return result
	}
	if bytes.Equal(content, placeholderContent) {
		result.Warnings = append(result.Warnings, "task file holds only a placeholder entry")
		return result
	}

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		result.fail("", fmt.Errorf("parse task file: %w", err))
		return result
	}

	schema, warning := compileSchema(opts.SchemaPath)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	if schema != nil {
		result.UsedSchema = true
		validateWithSchema(result, schema, doc)
	}

	var records []Record
	if err := json.Unmarshal(content, &records); err != nil {
		// The schema already explains why the shape is wrong.
		if result.Valid {
			result.fail("", fmt.Errorf("decode task file: %w", err))
		}
		return result
	}
	if schema == nil {
		validateMinimal(result, records)
	}

	validateInvariants(result, records)
	return result
}

func (r *ValidationResult) fail(path string, err error) {
	r.Valid = false
	r.Errors = append(r.Errors, &ValidationError{Path: path, Err: err})
}

// compileSchema compiles the schema at schemaPath, or the embedded schema
// when schemaPath is empty. On failure it returns a nil schema and a warning.
func compileSchema(schemaPath string) (*jsonschema.Schema, string) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	if schemaPath == "" {
		if err := compiler.AddResource(embeddedSchemaURL, strings.NewReader(embeddedSchema)); err != nil {
			return nil, fmt.Sprintf("invalid embedded schema: %v", err)
		}
		schema, err := compiler.Compile(embeddedSchemaURL)
		if err != nil {
			return nil, fmt.Sprintf("invalid embedded schema: %v", err)
		}
		return schema, ""
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema path: %v", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Sprintf("schema file not found: %s", absPath)
		}
		return nil, fmt.Sprintf("failed to read schema file: %v", err)
	}
	schema, err := compiler.Compile(absPath)
	if err != nil {
		return nil, fmt.Sprintf("invalid schema file: %v", err)
	}
	return schema, ""
}

func validateWithSchema(result *ValidationResult, schema *jsonschema.Schema, doc interface{}) {
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			result.Errors = append(result.Errors, err)
			return
		}
		collectSchemaErrors(result, ve)
	}
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// validateMinimal performs the checks the schema would otherwise cover.
func validateMinimal(result *ValidationResult, records []Record) {
	for i, rec := range records {
		path := fmt.Sprintf("[%d]", i)
		if rec.Description == "" {
			result.fail(path+".descriptionTaskEntity", errors.New("missing required field"))
		}
		if _, err := task.StatusFromCode(rec.StatusCode); err != nil {
			result.fail(path+".statusCode", err)
		}
	}
}

// validateInvariants checks what a schema cannot express: unique IDs and
// timestamp ordering. Records without ID only produce warnings because
// they are dropped when the file is read.
func validateInvariants(result *ValidationResult, records []Record) {
	seen := make(map[int64]int, len(records))
	for i, rec := range records {
		path := fmt.Sprintf("[%d]", i)
		if !rec.HasID() {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s.idTaskEntity: missing id, record is ignored", path))
			continue
		}
		result.Tasks++

		if first, ok := seen[rec.Key()]; ok {
			result.fail(path+".idTaskEntity", fmt.Errorf("duplicate id %d (first at [%d])", rec.Key(), first))
		} else {
			seen[rec.Key()] = i
		}

		if rec.CreatedAt != nil && rec.UpdatedAt != nil && rec.UpdatedAt.Before(rec.CreatedAt.Time) {
			result.fail(path+".updatedAt", errors.New("updatedAt is before createdAt"))
		}
	}
}

func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
