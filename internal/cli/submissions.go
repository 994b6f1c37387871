package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/s4sachin/dynamic-form-builder/internal/client"
	"github.com/s4sachin/dynamic-form-builder/internal/models"
	"github.com/s4sachin/dynamic-form-builder/internal/service"
)

func newSubmissionsCmd(opts *rootOptions) *cobra.Command {
	var (
		page   int
		limit  int
		sort   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "List stored submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				res *models.SubmissionPage
				err error
			)
			if opts.server != "" {
				res, err = client.New(opts.server).Submissions(ctx, page, limit, sort)
			} else {
				var q service.ListQuery
				q, err = service.ParseListQuery(strconv.Itoa(page), strconv.Itoa(limit), "createdAt", sort)
				if err != nil {
					reportValidation(cmd.ErrOrStderr(), err)
					return err
				}
				var a *app
				a, err = newApp(ctx, opts.cfg)
				if err != nil {
					return err
				}
				defer a.Close()
				res, err = a.subs.List(ctx, q.Page, q.Limit, q.SortOrder)
			}
			if err != nil {
				reportSubmitError(cmd.ErrOrStderr(), err)
				return err
			}
			return printOutput(cmd.OutOrStdout(), res, output)
		},
	}
	cmd.Flags().IntVar(&page, "page", service.DefaultPage, "page number, starting at 1")
	cmd.Flags().IntVar(&limit, "limit", service.DefaultLimit, "submissions per page (max 100)")
	cmd.Flags().StringVar(&sort, "sort", string(service.SortDesc), "sort order by creation time: asc or desc")
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")
	return cmd
}
