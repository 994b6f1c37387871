package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/s4sachin/dynamic-form-builder/internal/client"
	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/openapi"
	"github.com/s4sachin/dynamic-form-builder/internal/repository"
	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the form schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadSchema(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), schema, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")
	return cmd
}

func newOpenAPICmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "Print the OpenAPI document for the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := loadSchema(cmd.Context(), opts)
			if err != nil {
				return err
			}
			doc, err := openapi.Build(cmd.Context(), schema, Version)
			if err != nil {
				return err
			}
			return printOutput(cmd.OutOrStdout(), doc, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")
	return cmd
}

// loadSchema fetches the schema from --server when set, otherwise from the
// configured local source.
func loadSchema(ctx context.Context, opts *rootOptions) (*models.FormSchema, error) {
	if opts.server != "" {
		return client.New(opts.server).FormSchema(ctx)
	}
	return service.NewFormService(repository.NewSchemaSource(opts.cfg.SchemaPath)).Get(ctx)
}
