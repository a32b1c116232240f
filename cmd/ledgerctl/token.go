package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/pkg/config"
	"github.com/jhoicas/pos-ledger/pkg/jwt"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Tokens JWT para operar la API",
	}

	var (
		userID     string
		role       string
		expMinutes int
	)
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Emite un token firmado con JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			normalized, ok := entity.ParseRole(role)
			if !ok {
				return fmt.Errorf("rol %q desconocido (admin, manager, clerk)", role)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("JWT_SECRET no está configurado")
			}
			if expMinutes <= 0 {
				expMinutes = cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, userID, normalized, cfg.JWT.Issuer, expMinutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	issue.Flags().StringVar(&userID, "user", "", "ID del usuario (requerido)")
	issue.Flags().StringVar(&role, "role", entity.RoleClerk, "Rol: admin, manager o clerk")
	issue.Flags().IntVar(&expMinutes, "exp", 0, "Minutos de validez (0 usa JWT_EXPIRATION_MINUTES)")
	_ = issue.MarkFlagRequired("user")

	cmd.AddCommand(issue)
	return cmd
}
