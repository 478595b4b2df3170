package models

// Field type constants
const (
	FieldTypeText     = "text"     // short single-line text
	FieldTypeTextarea = "textarea" // long free text
	FieldTypeNumber   = "number"
	FieldTypeSelect   = "select" // single choice from Options
)

// FieldSpec describes one input of a document template
type FieldSpec struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

// DocumentTemplate is a fixed legal document type the assistant can draft.
// Templates are static catalog entries, not database rows.
type DocumentTemplate struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Color       string      `json:"color"`
	Fields      []FieldSpec `json:"fields"`
}

// Field returns the field named name, if the template declares it
func (t DocumentTemplate) Field(name string) (FieldSpec, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// RequiredFields returns the required field specs in template order
func (t DocumentTemplate) RequiredFields() []FieldSpec {
	var required []FieldSpec
	for _, f := range t.Fields {
		if f.Required {
			required = append(required, f)
		}
	}
	return required
}

// IsValidFieldType checks if the field type is one the form renderer knows
func IsValidFieldType(fieldType string) bool {
	switch fieldType {
	case FieldTypeText, FieldTypeTextarea, FieldTypeNumber, FieldTypeSelect:
		return true
	}
	return false
}

// AllowsOption reports whether value is one of the select options
func (f FieldSpec) AllowsOption(value string) bool {
	for _, opt := range f.Options {
		if opt == value {
			return true
		}
	}
	return false
}
