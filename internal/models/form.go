package models

// FieldType is the input kind of a form field.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multi-select"
	FieldDate        FieldType = "date"
	FieldTextarea    FieldType = "textarea"
	FieldSwitch      FieldType = "switch"
)

// FieldTypes lists every supported field type in declaration order.
var FieldTypes = []FieldType{
	FieldText,
	FieldNumber,
	FieldSelect,
	FieldMultiSelect,
	FieldDate,
	FieldTextarea,
	FieldSwitch,
}

// Known reports whether t is one of FieldTypes.
func (t FieldType) Known() bool {
	for _, ft := range FieldTypes {
		if ft == t {
			return true
		}
	}
	return false
}

// HasOptions reports whether fields of this type carry an options list.
func (t FieldType) HasOptions() bool {
	return t == FieldSelect || t == FieldMultiSelect
}

type FieldOption struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// FieldValidation holds the optional per-field constraints. Which keys apply
// depends on the field type.
type FieldValidation struct {
	MinLength   *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Regex       string   `json:"regex,omitempty" yaml:"regex,omitempty"`
	Min         *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MinDate     string   `json:"minDate,omitempty" yaml:"minDate,omitempty"`
	MinSelected *int     `json:"minSelected,omitempty" yaml:"minSelected,omitempty"`
	MaxSelected *int     `json:"maxSelected,omitempty" yaml:"maxSelected,omitempty"`
}

type FormField struct {
	ID          string           `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Type        FieldType        `json:"type" yaml:"type"`
	Label       string           `json:"label" yaml:"label"`
	Placeholder string           `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Required    bool             `json:"required" yaml:"required"`
	Options     []FieldOption    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation  *FieldValidation `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Rules returns the field's validation block, or an empty one.
func (f FormField) Rules() FieldValidation {
	if f.Validation == nil {
		return FieldValidation{}
	}
	return *f.Validation
}

// FormSchema is the single form document served to clients.
type FormSchema struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Fields      []FormField `json:"fields" yaml:"fields"`
}

// Field looks up a field by name.
func (s *FormSchema) Field(name string) (FormField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FormField{}, false
}
