// Package tui fills a form schema interactively in the terminal. Every
// answer passes the same rules the API applies to submissions.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/validation"
)

const (
	defaultMaxAttempts = 3
	skipOption         = "(skip)"
)

// ErrTooManyAttempts is returned when a field keeps failing validation.
var ErrTooManyAttempts = errors.New("tui: too many invalid answers")

type Renderer struct {
	driver      PromptDriver
	maxAttempts int
}

func NewRenderer(driver PromptDriver) *Renderer {
	return &Renderer{driver: driver, maxAttempts: defaultMaxAttempts}
}

// Fill prompts for every field of schema in order and returns the
// normalized submission data.
func (r *Renderer) Fill(ctx context.Context, schema *models.FormSchema) (map[string]any, error) {
	v, err := validation.New(schema)
	if err != nil {
		return nil, err
	}
	if err := r.driver.Info(ctx, schema.Title); err != nil {
		return nil, err
	}
	if schema.Description != "" {
		if err := r.driver.Info(ctx, schema.Description); err != nil {
			return nil, err
		}
	}

	data := make(map[string]any, len(schema.Fields))
	for _, rule := range v.Rules() {
		value, keep, err := r.askField(ctx, rule)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", rule.Field().Name, err)
		}
		if keep {
			data[rule.Field().Name] = value
		}
	}

	res := v.Validate(data)
	if !res.OK() {
		return nil, fmt.Errorf("form rejected: %v", res.Errors)
	}
	return res.Data, nil
}

func (r *Renderer) askField(ctx context.Context, rule validation.Rule) (any, bool, error) {
	for attempt := 1; ; attempt++ {
		raw, err := r.prompt(ctx, rule.Field())
		if err != nil {
			return nil, false, err
		}
		value, keep, msgs := validation.Apply(rule, raw)
		if len(msgs) == 0 {
			return value, keep, nil
		}
		if attempt >= r.maxAttempts {
			return nil, false, fmt.Errorf("%w: %s", ErrTooManyAttempts, strings.Join(msgs, "; "))
		}
		if err := r.driver.Info(ctx, "  "+strings.Join(msgs, "; ")); err != nil {
			return nil, false, err
		}
	}
}

func (r *Renderer) prompt(ctx context.Context, f models.FormField) (any, error) {
	msg := f.Label
	if f.Required {
		msg += " *"
	}
	help := f.Description
	if help == "" {
		help = f.Placeholder
	}

	switch f.Type {
	case models.FieldText, models.FieldNumber:
		return r.driver.Input(ctx, InputConfig{Message: msg, Help: help})
	case models.FieldDate:
		if help == "" {
			help = "YYYY-MM-DD"
		}
		return r.driver.Input(ctx, InputConfig{Message: msg, Help: help})
	case models.FieldTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: msg, Help: help})
	case models.FieldSwitch:
		return r.driver.Confirm(ctx, ConfirmConfig{Message: msg, Help: help})
	case models.FieldSelect:
		labels := optionLabels(f.Options)
		if !f.Required {
			labels = append([]string{skipOption}, labels...)
		}
		idx, err := r.driver.Select(ctx, SelectConfig{Message: msg, Options: labels, Help: help})
		if err != nil {
			return nil, err
		}
		if !f.Required {
			if idx == 0 {
				return nil, nil
			}
			idx--
		}
		if idx < 0 || idx >= len(f.Options) {
			return "", nil
		}
		return f.Options[idx].Value, nil
	case models.FieldMultiSelect:
		idx, err := r.driver.MultiSelect(ctx, SelectConfig{Message: msg, Options: optionLabels(f.Options), Help: help})
		if err != nil {
			return nil, err
		}
		values := make([]string, 0, len(idx))
		for _, i := range idx {
			if i >= 0 && i < len(f.Options) {
				values = append(values, f.Options[i].Value)
			}
		}
		return values, nil
	default:
		return nil, fmt.Errorf("%w: %q", validation.ErrUnknownFieldType, f.Type)
	}
}

func optionLabels(opts []models.FieldOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Label
	}
	return out
}
