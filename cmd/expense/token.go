package main

import (
	"fmt"

	"github.com/spf13/cobra"

	appctx "barinalp/internal/core/context"
	"barinalp/internal/domain/auth"
)

var (
	tokenName string
	tokenRole string
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a bearer token for the HTTP API",
	Example: `  expense token tech-1 --name "Иван Петров"
  expense token dir-1 --role director`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := setup(cmd.Context())
		if err != nil {
			return err
		}

		if tokenRole != appctx.RoleTechnician && tokenRole != appctx.RoleDirector {
			return fmt.Errorf("unknown role %q", tokenRole)
		}

		token, expiresAt, err := auth.NewJWTService(cfg.JWT).GenerateAccessToken(appctx.UserContext{
			UserID: args[0],
			Name:   tokenName,
			Role:   tokenRole,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format("02.01.2006 15:04"))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "Display name")
	tokenCmd.Flags().StringVar(&tokenRole, "role", appctx.RoleTechnician, "technician or director")
}
