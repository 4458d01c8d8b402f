package commands

import (
	"github.com/spf13/cobra"
)

// create: open the dialog empty, fill it and submit.
func createCmd() *cobra.Command {
	var (
		title      string
		percentage float64
		questions  []int64
		allOnPage  bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new exam",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx := commandContext(cmd)
			form := newForm(cmd)
			if err := form.Open(ctx, nil, false); err != nil {
				return err
			}
			if err := form.SetTitle(title); err != nil {
				return err
			}
			if cmd.Flags().Changed("percentage") {
				if err := form.SetApprovalPercentage(&percentage); err != nil {
					return err
				}
			}
			if allOnPage {
				form.MoveAllToTarget()
			}
			if err := pickQuestions(ctx, form, questions); err != nil {
				return err
			}
			return form.Submit(ctx)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "exam title")
	cmd.Flags().Float64Var(&percentage, "percentage", 0, "approval percentage (0-100)")
	cmd.Flags().Int64SliceVar(&questions, "question", nil, "question id to include (repeatable)")
	cmd.Flags().BoolVar(&allOnPage, "all-on-page", false, "include every question of the first drop-down page")
	return cmd
}
