package task

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
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
	// SchemaPath is the path to the JSON Schema file.
	// If empty, validation uses only minimal fallback checks.
	SchemaPath string
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid      bool
	Errors     []error
	Warnings   []string
	UsedSchema bool // true if JSON Schema validation was performed
}

// Validate validates the envelope.
func (e *Envelope) Validate(opts ValidationOptions) *ValidationResult {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	// Try JSON Schema validation first if schema path is provided
	if opts.SchemaPath != "" {
		schemaResult := validateWithSchema(e, opts.SchemaPath)
		result.UsedSchema = schemaResult.UsedSchema
		if len(schemaResult.Warnings) > 0 {
			result.Warnings = append(result.Warnings, schemaResult.Warnings...)
		}
		if schemaResult.UsedSchema {
			if !schemaResult.Valid {
				result.Valid = false
				result.Errors = append(result.Errors, schemaResult.Errors...)
			}
			return result
		}
		// Schema validation not available, fall through to minimal checks
		result.Warnings = append(result.Warnings, "JSON Schema validation not available, using minimal checks")
	}

	e.validateMinimal(result)

	return result
}

// validateMinimal performs minimal validation without JSON Schema.
func (e *Envelope) validateMinimal(result *ValidationResult) {
	if e.SchemaVersion != SchemaVersion {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "schema_version",
			Err:  fmt.Errorf("expected %d, got %d", SchemaVersion, e.SchemaVersion),
		})
	}

	if e.Tasks == nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Path: "tasks",
			Err:  fmt.Errorf("missing required field"),
		})
		return
	}

	seen := make(map[string]int, len(e.Tasks))
	for i, t := range e.Tasks {
		path := fmt.Sprintf("tasks[%d]", i)
		if err := validateTaskMinimal(&t, path); err != nil {
			result.Valid = false
			result.Errors = append(result.Errors, err)
			continue
		}
		if prev, ok := seen[t.ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %q, first seen at tasks[%d]", t.ID, prev),
			})
			continue
		}
		seen[t.ID] = i
	}
}

// validateTaskMinimal performs minimal task validation.
func validateTaskMinimal(t *Task, path string) *ValidationError {
	if t.ID == "" {
		return &ValidationError{
			Path: path + ".id",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	// Titles may be empty: the store accepts them, so load must too.

	if !t.Status.Real() {
		return &ValidationError{
			Path: path + ".status",
			Err:  fmt.Errorf("invalid status %q, must be one of: backlog, in_progress, done", t.Status),
		}
	}

	return nil
}

// validateWithSchema attempts JSON Schema validation.
func validateWithSchema(e *Envelope, schemaPath string) *ValidationResult {
	result := &ValidationResult{
		Valid:      true,
		Errors:     make([]error, 0),
		Warnings:   make([]string, 0),
		UsedSchema: false,
	}

	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema path: %v", err))
		return result
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			result.Warnings = append(result.Warnings, fmt.Sprintf("schema file not found: %s", absPath))
		} else {
			result.Warnings = append(result.Warnings, fmt.Sprintf("failed to read schema file: %v", err))
		}
		return result
	}

	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	schema, err := compiler.Compile(absPath)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("invalid schema file: %v", err))
		return result
	}

	result.UsedSchema = true

	// Marshal the envelope back to JSON for validation
	data, err := json.Marshal(e)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to marshal envelope for validation: %w", err),
		})
		return result
	}

	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("failed to unmarshal envelope for validation: %w", err),
		})
		return result
	}

	if err := schema.Validate(obj); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
	}

	return result
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func jsonPointerToPath(ptr string) string {
	if ptr == "" {
		return ""
	}
	if strings.HasPrefix(ptr, "#") {
		ptr = strings.TrimPrefix(ptr, "#")
	}
	if strings.HasPrefix(ptr, "/") {
		ptr = ptr[1:]
	}
	if ptr == "" {
		return ""
	}

	parts := strings.Split(ptr, "/")
	path := ""
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}

	return path
}
