package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s4sachin/dynamic-form-builder/internal/client"
	"github.com/s4sachin/dynamic-form-builder/internal/models"
)

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	var (
		file   string
		formID string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate and store a submission read from a JSON file",
		Long: "submit reads a JSON object of field values from --file (\"-\" for stdin),\n" +
			"validates it against the form schema and stores it.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readData(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if formID == "" {
				schema, err := loadSchema(ctx, opts)
				if err != nil {
					return err
				}
				formID = schema.ID
			}
			res, err := submit(ctx, opts, models.CreateSubmissionPayload{FormID: formID, Data: data})
			if err != nil {
				reportSubmitError(cmd.ErrOrStderr(), err)
				return err
			}
			return printOutput(cmd.OutOrStdout(), res, outputJSON)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with field values (\"-\" for stdin)")
	cmd.Flags().StringVar(&formID, "form-id", "", "form id (default: the id of the loaded schema)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// submit stores payload through --server when set, otherwise locally.
func submit(ctx context.Context, opts *rootOptions, payload models.CreateSubmissionPayload) (*models.CreateSubmissionResult, error) {
	if opts.server != "" {
		return client.New(opts.server).Submit(ctx, payload)
	}
	a, err := newApp(ctx, opts.cfg)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.subs.Create(ctx, payload)
}

func readData(stdin io.Reader, file string) (map[string]any, error) {
	var r io.Reader
	if file == "-" {
		r = stdin
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("open submission file: %w", err)
		}
		defer f.Close()
		r = f
	}
	var data map[string]any
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode submission file: %w", err)
	}
	if data == nil {
		return nil, errors.New("submission file must contain a JSON object")
	}
	return data, nil
}

func reportSubmitError(w io.Writer, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		printFieldErrors(w, apiErr.Fields)
		return
	}
	reportValidation(w, err)
}
