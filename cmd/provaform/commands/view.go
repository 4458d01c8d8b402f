package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// view <id>: open an exam read-only and print it.
func viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: "Show an exam without editing it",
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
			if err := form.Open(ctx, exam, true); err != nil {
				return err
			}
			defer form.Cancel()

			out := cmd.OutOrStdout()
			f := form.Form()
			fmt.Fprintln(out, form.Header())
			fmt.Fprintf(out, "Título: %s\n", f.Title)
			if f.ApprovalPercentage != nil {
				fmt.Fprintf(out, "Percentual de Aprovação: %.2f\n", *f.ApprovalPercentage)
			}
			printItems(out, form.Target())
			return nil
		},
	}
}
