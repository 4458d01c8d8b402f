package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// edit <id>: load an exam, apply the given changes and submit.
func editCmd() *cobra.Command {
	var (
		title       string
		percentage  float64
		add, remove []int64
		clearAll    bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an existing exam",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			exam, err := api.Exams().Get(ctx, id)
			if err != nil {
				return err
			}

			form := newForm(cmd)
			if err := form.Open(ctx, exam, false); err != nil {
				return err
			}
			if cmd.Flags().Changed("title") {
				if err := form.SetTitle(title); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("percentage") {
				if err := form.SetApprovalPercentage(&percentage); err != nil {
					return err
				}
			}
			if clearAll {
				form.MoveAllToSource()
			}
			form.MoveToSource(remove...)
			if err := pickQuestions(ctx, form, add); err != nil {
				return err
			}
			return form.Submit(ctx)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().Float64Var(&percentage, "percentage", 0, "new approval percentage (0-100)")
	cmd.Flags().Int64SliceVar(&add, "add", nil, "question id to add (repeatable)")
	cmd.Flags().Int64SliceVar(&remove, "remove", nil, "question id to remove (repeatable)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "remove every current question before --add")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid exam id %q", raw)
	}
	return id, nil
}
