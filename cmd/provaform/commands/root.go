package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sgp/sgp-backend/internal/client"
	"github.com/sgp/sgp-backend/internal/config"
	"github.com/sgp/sgp-backend/internal/examform"
	"github.com/sgp/sgp-backend/internal/logger"
	"github.com/sgp/sgp-backend/internal/model"
)

var (
	apiURL   string
	token    string
	logLevel string

	api *client.Client
	log zerolog.Logger
)

func Execute() error {
	root := &cobra.Command{
		Use:           "provaform",
		Short:         "Cadastro de provas do SGP pelo terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if apiURL == "" {
				apiURL = cfg.APIBaseURL
			}
			if token == "" {
				token = cfg.APIToken
			}
			if logLevel == "" {
				logLevel = cfg.LogLevel
			}
			log = logger.Setup(logLevel, "pretty", os.Stderr)
			api = client.New(apiURL, token)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default $SGP_API_URL)")
	root.PersistentFlags().StringVar(&token, "token", "", "admin token (default $SGP_API_TOKEN)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (default $LOG_LEVEL)")

	root.AddCommand(
		loginCmd(),
		questionsCmd(),
		createCmd(),
		editCmd(),
		viewCmd(),
		exportCmd(),
		watchCmd(),
	)

	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
	}
	return err
}

// newForm builds a dialog wired to the API and the console.
func newForm(cmd *cobra.Command) *examform.Controller {
	out := cmd.OutOrStdout()
	return examform.New(examform.Deps{
		Alerts:    consoleAlerter{log: log},
		Loader:    &logLoader{log: log},
		Questions: api.Questions(),
		Exams:     api.Exams(),
		Hooks: examform.Hooks{
			OnSaved: func(exam model.Exam) {
				if exam.ID != nil {
					fmt.Fprintf(out, "prova %d salva\n", *exam.ID)
					return
				}
				fmt.Fprintln(out, "prova salva")
			},
		},
	}, log)
}

func requireToken() error {
	if api.Token == "" {
		return fmt.Errorf("token required (--token or SGP_API_TOKEN); run provaform login")
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
