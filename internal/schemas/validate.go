// Package schemas validates JSON inputs (résumés, personal info) against embedded JSON Schemas.
package schemas

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/jobfit/internal/types"
)

//go:embed *.schema.json
var schemaFS embed.FS

// Schema names an embedded schema file.
type Schema string

const (
	// ResumeDataSchema describes types.ResumeData
	ResumeDataSchema Schema = "resume_data.schema.json"
	// PersonalInfoSchema describes types.PersonalInfo
	PersonalInfoSchema Schema = "personal_info.schema.json"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Content returns the raw text of an embedded schema.
func Content(name Schema) (string, error) {
	data, err := schemaFS.ReadFile(string(name))
	if err != nil {
		return "", &SchemaLoadError{Path: string(name), Message: "unknown schema", Cause: err}
	}
	return string(data), nil
}

// ValidateDocument validates raw JSON against an embedded schema.
func ValidateDocument(name Schema, data []byte) error {
	schema, err := Content(name)
	if err != nil {
		return err
	}
	return validate(
		string(name),
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
}

func validate(path string, schemaLoader, documentLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    path,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// DecodeResumeData validates data against the résumé schema and decodes it.
func DecodeResumeData(data []byte) (*types.ResumeData, error) {
	if err := ValidateDocument(ResumeDataSchema, data); err != nil {
		return nil, err
	}
	var r types.ResumeData
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to decode resume data: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resume data: %w", err)
	}
	return &r, nil
}

// DecodePersonalInfo validates data against the personal-info schema and decodes it.
func DecodePersonalInfo(data []byte) (*types.PersonalInfo, error) {
	if err := ValidateDocument(PersonalInfoSchema, data); err != nil {
		return nil, err
	}
	var p types.PersonalInfo
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode personal info: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid personal info: %w", err)
	}
	return &p, nil
}
