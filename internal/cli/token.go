package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mani1234567sk/Frin-Backend/internal/auth"
)

// NewTokenCommand issues an operator token directly from JWT_SECRET, for
// setups without a stored operator password.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		operator string
		ttl      time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an operator token for the maintenance-mode endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := rootOpts.load()
			if err != nil {
				return err
			}
			if !cfg.AuthEnabled() {
				return errors.New("JWT_SECRET is not set, tokens are not needed")
			}
			if operator == "" {
				operator = cfg.OperatorName
			}
			if ttl == 0 {
				ttl = cfg.TokenTTL
			}
			token, err := auth.GenerateToken(cfg.JWTSecret, operator, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&operator, "operator", "", "operator name (default OPERATOR_NAME)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default TOKEN_TTL)")
	return cmd
}

func NewHashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for OPERATOR_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}
