package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// login: exchange admin credentials for a token.
func loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate as admin and print the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return errors.New("password required (--password)")
				}
				fmt.Fprint(os.Stderr, "Senha: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(os.Stderr)
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(raw)
			}

			res, err := api.Login(commandContext(cmd), email, password)
			if err != nil {
				return err
			}
			log.Info().Str("admin", res.Admin.Email).Strs("permissions", res.Permissions).Msg("Logged in")
			fmt.Fprintln(cmd.OutOrStdout(), res.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
