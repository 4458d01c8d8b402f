package commands

import (
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sgp/sgp-backend/internal/examform"
	"github.com/sgp/sgp-backend/internal/model"
)

// questions: browse the question drop-down one page at a time.
func questionsCmd() *cobra.Command {
	var (
		first, rows int
		filter      model.QuestionFilter
		difficulty  string
	)
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "List a page of the question drop-down",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			filter.Difficulty = model.QuestionDifficulty(difficulty)
			if filter.Difficulty != "" && !filter.Difficulty.Valid() {
				return fmt.Errorf("invalid difficulty %q", difficulty)
			}
			form := newForm(cmd)
			form.SetFilter(filter)

			ctx := commandContext(cmd)
			if cmd.Flags().Changed("first") || cmd.Flags().Changed("rows") {
				err := form.RefreshQuestions(ctx, &examform.PageEvent{First: first, Rows: rows})
				if err != nil {
					return err
				}
			} else if err := form.Init(ctx); err != nil {
				return err
			}
			printItems(cmd.OutOrStdout(), form.Source())
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d\n", form.TotalQuestions())
			return nil
		},
	}
	cmd.Flags().IntVar(&first, "first", 0, "page index")
	cmd.Flags().IntVar(&rows, "rows", model.DefaultPageSize, "page size")
	cmd.Flags().StringVar(&filter.Description, "description", "", "filter by description")
	cmd.Flags().StringVar(&filter.Subject, "subject", "", "filter by subject")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "filter by difficulty (EASY, MEDIUM, HARD)")
	return cmd
}

func printItems(w io.Writer, items []model.SelectItem) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tQUESTÃO")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\n", it.Value, it.Label)
	}
	_ = tw.Flush()
}

// pickQuestions pages through the drop-down moving every wanted id into the
// target list. It fails if some id never shows up.
func pickQuestions(ctx context.Context, form *examform.Controller, ids []int64) error {
	want := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	for _, it := range form.Target() {
		delete(want, it.Value)
	}

	for page := 0; len(want) > 0; page++ {
		if err := form.RefreshQuestions(ctx, &examform.PageEvent{First: page, Rows: model.MaxPageSize}); err != nil {
			return err
		}
		source := form.Source()
		if len(source) == 0 {
			break
		}
		var found []int64
		for _, it := range source {
			if _, ok := want[it.Value]; ok {
				found = append(found, it.Value)
				delete(want, it.Value)
			}
		}
		form.MoveToTarget(found...)
		if (page+1)*model.MaxPageSize >= form.TotalQuestions() {
			break
		}
	}

	if len(want) > 0 {
		missing := make([]int64, 0, len(want))
		for id := range want {
			missing = append(missing, id)
		}
		slices.Sort(missing)
		return fmt.Errorf("questões não encontradas: %v", missing)
	}
	return nil
}
