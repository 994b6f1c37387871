package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// printOutput writes v as indented JSON or as YAML. YAML keys follow the
// JSON field names.
func printOutput(w io.Writer, v any, format string) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	switch format {
	case "", outputJSON:
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case outputYAML:
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q (valid: json, yaml)", format)
	}
}

func printFieldErrors(w io.Writer, fields map[string][]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, msg := range fields[name] {
			fmt.Fprintf(w, "  %s: %s\n", name, msg)
		}
	}
}

func reportValidation(w io.Writer, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		printFieldErrors(w, verr.Fields)
	}
}
