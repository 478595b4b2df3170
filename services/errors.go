package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTemplateNotFound indicates an unknown document template id
	ErrTemplateNotFound = errors.New("document template not found")
	// ErrDeadlineNotFound indicates an unknown tracked deadline
	ErrDeadlineNotFound = errors.New("deadline not found")
	// ErrDocumentNotFound indicates an unknown generated document
	ErrDocumentNotFound = errors.New("generated document not found")
	// ErrFileNotFound indicates the deadline or document has no stored file yet
	ErrFileNotFound = errors.New("stored file not found")
)

// FieldProblem names one field that failed validation
type FieldProblem struct {
	Field string `json:"field"`
	Label string `json:"label"`
}

// ValidationError lists every required field that is missing or blank and
// every field whose value is not acceptable for its type.
type ValidationError struct {
	TemplateID string         `json:"template_id"`
	Missing    []FieldProblem `json:"missing,omitempty"`
	Invalid    []FieldProblem `json:"invalid,omitempty"`
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.MissingFields(), ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(fieldNames(e.Invalid), ", "))
	}
	return fmt.Sprintf("template %s: %s", e.TemplateID, strings.Join(parts, "; "))
}

// MissingFields returns the names of the missing required fields
func (e *ValidationError) MissingFields() []string {
	return fieldNames(e.Missing)
}

// MissingLabels returns the display labels of the missing required fields
func (e *ValidationError) MissingLabels() []string {
	labels := make([]string, 0, len(e.Missing))
	for _, p := range e.Missing {
		labels = append(labels, p.Label)
	}
	return labels
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0
}

func fieldNames(problems []FieldProblem) []string {
	names := make([]string, 0, len(problems))
	for _, p := range problems {
		names = append(names, p.Field)
	}
	return names
}

// GenerationError is returned when the text generation service fails or
// returns nothing usable. UserMessage is safe to show to end users.
type GenerationError struct {
	TemplateID  string
	UserMessage string
	err         error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("document generation failed for %s: %v", e.TemplateID, e.err)
}

func (e *GenerationError) Unwrap() error {
	return e.err
}

// ExportError is returned when printing or sharing a document fails
type ExportError struct {
	Stage       string // print, share
	UserMessage string
	err         error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("document export failed at %s: %v", e.Stage, e.err)
}

func (e *ExportError) Unwrap() error {
	return e.err
}

// IsValidationError returns true if err is or wraps a *ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsGenerationError returns true if err is or wraps a *GenerationError
func IsGenerationError(err error) bool {
	var target *GenerationError
	return errors.As(err, &target)
}

// IsExportError returns true if err is or wraps an *ExportError
func IsExportError(err error) bool {
	var target *ExportError
	return errors.As(err, &target)
}
