package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sgp/sgp-backend/internal/model"
)

// watch: follow exam events until interrupted.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Log exams as they are created or updated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireToken(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info().Str("api", api.Base).Msg("Watching exam events")
			return api.SubscribeExamEvents(ctx, func(evt model.ExamEvent) {
				e := log.Info().Str("type", string(evt.Type)).Str("title", evt.Exam.Title).Int("actor_id", evt.ActorID)
				if evt.Exam.ID != nil {
					e = e.Int64("exam_id", *evt.Exam.ID)
				}
				msg := "Prova atualizada"
				if evt.Type == model.ExamEventCreated {
					msg = "Prova cadastrada"
				}
				e.Msg(msg)
			})
		},
	}
}
