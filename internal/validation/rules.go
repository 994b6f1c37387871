// Package validation derives executable rules from a form schema and applies
// them to submission payloads.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

// ErrUnknownFieldType is returned when a field declares an unsupported type.
var ErrUnknownFieldType = errors.New("unknown field type")

// Rule checks a single non-empty value for one field. Check returns the
// normalized value and the rejection messages, if any.
type Rule interface {
	Field() models.FormField
	Check(value any) (any, []string)
}

// BuildRule returns the rule for the field's declared type.
func BuildRule(field models.FormField) (Rule, error) {
	v := field.Rules()
	switch field.Type {
	case models.FieldText, models.FieldTextarea:
		r := &textRule{field: field, minLength: v.MinLength, maxLength: v.MaxLength}
		if v.Regex != "" {
			re, err := regexp.Compile(v.Regex)
			if err != nil {
				return nil, fmt.Errorf("field %q: compile regex: %w", field.Name, err)
			}
			r.pattern = re
		}
		return r, nil
	case models.FieldNumber:
		return &numberRule{field: field, min: v.Min, max: v.Max}, nil
	case models.FieldSelect:
		return &selectRule{field: field}, nil
	case models.FieldMultiSelect:
		return &multiSelectRule{field: field, minSelected: v.MinSelected, maxSelected: v.MaxSelected}, nil
	case models.FieldDate:
		r := &dateRule{field: field}
		if v.MinDate != "" {
			t, ok := ParseDate(v.MinDate)
			if !ok {
				return nil, fmt.Errorf("field %q: invalid minDate %q", field.Name, v.MinDate)
			}
			r.minDate = &t
			r.minDateRaw = v.MinDate
		}
		return r, nil
	case models.FieldSwitch:
		return &switchRule{field: field}, nil
	default:
		return nil, fmt.Errorf("field %q: %w: %q", field.Name, ErrUnknownFieldType, field.Type)
	}
}

// Apply runs rule against a raw value, honoring the field's required flag.
// An empty optional value is accepted as absent; the returned bool is false
// in that case so callers can leave the key out. An optional select is
// absent only when the value is nil; "" means no option was chosen.
func Apply(rule Rule, value any) (any, bool, []string) {
	f := rule.Field()
	if IsEmpty(value) {
		if f.Required {
			return nil, false, []string{fmt.Sprintf("%s is required", f.Name)}
		}
		if f.Type != models.FieldSelect || value == nil {
			return nil, false, nil
		}
	}
	out, msgs := rule.Check(value)
	if len(msgs) > 0 {
		return nil, false, msgs
	}
	return out, true, nil
}

// IsEmpty reports whether v counts as "no value": nil, "", or an empty list.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	}
	return false
}

type textRule struct {
	field     models.FormField
	minLength *int
	maxLength *int
	pattern   *regexp.Regexp
}

func (r *textRule) Field() models.FormField { return r.field }

func (r *textRule) Check(value any) (any, []string) {
	s, ok := value.(string)
	if !ok {
		return nil, []string{"Expected string"}
	}
	var msgs []string
	n := utf8.RuneCountInString(s)
	if r.minLength != nil && n < *r.minLength {
		msgs = append(msgs, fmt.Sprintf("Minimum %d characters", *r.minLength))
	}
	if r.maxLength != nil && n > *r.maxLength {
		msgs = append(msgs, fmt.Sprintf("Maximum %d characters", *r.maxLength))
	}
	if r.pattern != nil && !r.pattern.MatchString(s) {
		msgs = append(msgs, "Invalid format")
	}
	return s, msgs
}

type numberRule struct {
	field models.FormField
	min   *float64
	max   *float64
}

func (r *numberRule) Field() models.FormField { return r.field }

func (r *numberRule) Check(value any) (any, []string) {
	n, ok := ToNumber(value)
	if !ok {
		return nil, []string{"Expected number"}
	}
	var msgs []string
	if r.min != nil && n < *r.min {
		msgs = append(msgs, "Minimum value: "+formatNumber(*r.min))
	}
	if r.max != nil && n > *r.max {
		msgs = append(msgs, "Maximum value: "+formatNumber(*r.max))
	}
	return n, msgs
}

// ToNumber coerces JSON numbers, Go numeric types and numeric strings.
func ToNumber(value any) (float64, bool) {
	var n float64
	switch t := value.(type) {
	case float64:
		n = t
	case float32:
		n = float64(t)
	case int:
		n = float64(t)
	case int32:
		n = float64(t)
	case int64:
		n = float64(t)
	case interface{ Float64() (float64, error) }:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type selectRule struct {
	field models.FormField
}

func (r *selectRule) Field() models.FormField { return r.field }

func (r *selectRule) Check(value any) (any, []string) {
	s, ok := value.(string)
	if !ok || s == "" {
		return nil, []string{"Please select an option"}
	}
	return s, nil
}

type multiSelectRule struct {
	field       models.FormField
	minSelected *int
	maxSelected *int
}

func (r *multiSelectRule) Field() models.FormField { return r.field }

func (r *multiSelectRule) Check(value any) (any, []string) {
	items, ok := toStrings(value)
	if !ok {
		return nil, []string{"Expected array of strings"}
	}
	var msgs []string
	// At least one item is required even without minSelected.
	if len(items) < 1 {
		msgs = append(msgs, "Select at least one option")
	}
	if r.minSelected != nil && *r.minSelected > 0 && len(items) < *r.minSelected {
		msgs = append(msgs, fmt.Sprintf("Select at least %d option(s)", *r.minSelected))
	}
	if r.maxSelected != nil && *r.maxSelected > 0 && len(items) > *r.maxSelected {
		msgs = append(msgs, fmt.Sprintf("Select maximum %d option(s)", *r.maxSelected))
	}
	return items, msgs
}

func toStrings(value any) ([]string, bool) {
	switch t := value.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

type dateRule struct {
	field      models.FormField
	minDate    *time.Time
	minDateRaw string
}

func (r *dateRule) Field() models.FormField { return r.field }

func (r *dateRule) Check(value any) (any, []string) {
	s, ok := value.(string)
	if !ok {
		return nil, []string{"Invalid date format"}
	}
	t, ok := ParseDate(s)
	if !ok {
		return nil, []string{"Invalid date format"}
	}
	if r.minDate != nil && t.Before(*r.minDate) {
		return nil, []string{fmt.Sprintf("Date must be %s or later", r.minDateRaw)}
	}
	return s, nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate accepts calendar dates and RFC 3339 timestamps. Values without
// a zone are read as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

type switchRule struct {
	field models.FormField
}

func (r *switchRule) Field() models.FormField { return r.field }

func (r *switchRule) Check(value any) (any, []string) {
	b, ok := value.(bool)
	if !ok {
		return nil, []string{"Expected boolean"}
	}
	return b, nil
}
