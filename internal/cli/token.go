package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Catalogo-api/pkg/jwt"
)

// TokenOptions opciones del comando token.
type TokenOptions struct {
	Subject    string
	Role       string
	ExpMinutes int // 0: JWT_EXPIRATION_MINUTES
}

// NewTokenCommand crea el comando token.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TokenOptions{}

	cmd := &cobra.Command{
		Use:           "token",
		Short:         "Emite un Bearer Token firmado con JWT_SECRET",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Subject, "subject", "catalogctl", "sujeto del token (sub)")
	cmd.Flags().StringVar(&opts.Role, "role", jwt.RoleAdmin, "rol: admin, catalogo o consulta")
	cmd.Flags().IntVar(&opts.ExpMinutes, "exp", 0, "vencimiento en minutos")

	return cmd
}

func runToken(cmd *cobra.Command, rootOpts *RootOptions, opts *TokenOptions) error {
	if !jwt.ValidRole(opts.Role) {
		return fmt.Errorf("token: rol %q inválido, debe ser uno de %v", opts.Role, jwt.Roles())
	}
	cfg, err := rootOpts.load()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("token: JWT_SECRET no configurado")
	}
	exp := opts.ExpMinutes
	if exp <= 0 {
		exp = cfg.JWT.Expiration
	}
	token, err := jwt.Generate(cfg.JWT.Secret, opts.Subject, opts.Role, cfg.JWT.Issuer, exp)
	if err != nil {
		return fmt.Errorf("token: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
