package services

import (
	"strconv"
	"strings"

	"minerva_app_go/models"
)

// FormValues maps template field names to the values the user typed
type FormValues map[string]string

// Get returns the trimmed value of a field ("" when absent)
func (v FormValues) Get(name string) string {
	return strings.TrimSpace(v[name])
}

// ValidateFormValues checks values against the template field specs.
// Every missing or blank required field is reported in one *ValidationError;
// non-blank values outside a select field's options are reported too.
func ValidateFormValues(tmpl models.DocumentTemplate, values FormValues) error {
	verr := &ValidationError{TemplateID: tmpl.ID}

	for _, field := range tmpl.Fields {
		value := values.Get(field.Name)
		if value == "" {
			if field.Required {
				verr.Missing = append(verr.Missing, FieldProblem{Field: field.Name, Label: field.Label})
			}
			continue
		}

		if field.Type == models.FieldTypeSelect && len(field.Options) > 0 && !field.AllowsOption(value) {
			verr.Invalid = append(verr.Invalid, FieldProblem{Field: field.Name, Label: field.Label})
		}
	}

	if verr.empty() {
		return nil
	}
	return verr
}

// FormWarnings reports number fields whose value does not parse as a number.
// They do not block generation; the text goes into the document as typed.
func FormWarnings(tmpl models.DocumentTemplate, values FormValues) []FieldProblem {
	var warnings []FieldProblem
	for _, field := range tmpl.Fields {
		if field.Type != models.FieldTypeNumber {
			continue
		}
		value := values.Get(field.Name)
		if value == "" {
			continue
		}
		if _, err := strconv.ParseFloat(normalizeNumber(value), 64); err != nil {
			warnings = append(warnings, FieldProblem{Field: field.Name, Label: field.Label})
		}
	}
	return warnings
}

// normalizeNumber accepts "1,500.00" and "$1500" style amounts
func normalizeNumber(value string) string {
	value = strings.TrimPrefix(value, "$")
	return strings.ReplaceAll(value, ",", "")
}
