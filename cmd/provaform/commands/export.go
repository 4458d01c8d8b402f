package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// export <id>: download the exam workbook.
func exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Download an exam as an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = fmt.Sprintf("prova-%d.xlsx", id)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := api.Exams().Export(commandContext(cmd), id, f); err != nil {
				f.Close()
				_ = os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default prova-<id>.xlsx)")
	return cmd
}
