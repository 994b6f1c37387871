package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/tui"
)

// newPromptDriver is replaced in tests.
var newPromptDriver = tui.NewSurveyDriver

func newFillCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill in the form interactively and submit it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			schema, err := loadSchema(ctx, opts)
			if err != nil {
				return err
			}
			data, err := tui.NewRenderer(newPromptDriver()).Fill(ctx, schema)
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "aborted")
				return nil
			}
			if err != nil {
				reportValidation(cmd.ErrOrStderr(), err)
				return err
			}
			if dryRun {
				return printOutput(cmd.OutOrStdout(), data, outputJSON)
			}
			res, err := submit(ctx, opts, models.CreateSubmissionPayload{FormID: schema.ID, Data: data})
			if err != nil {
				reportSubmitError(cmd.ErrOrStderr(), err)
				return err
			}
			return printOutput(cmd.OutOrStdout(), res, outputJSON)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the collected data instead of submitting it")
	return cmd
}
