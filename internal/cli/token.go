package cli

import (
	"fmt"
	"os"
	"time"

	"washday/internal/domain/user"
	"washday/internal/pkg/jwt"
	"washday/internal/pkg/patch"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for local testing",
		Long: `Signs a token with the shared HS256 secret. Production tokens come from
the identity service; this is for local environments and smoke tests.`,
		RunE: runToken,
	}
	cmd.Flags().String("player", "", "Player ID (default: random)")
	cmd.Flags().String("role", string(user.RoleOperator), "Role: player, operator or admin")
	cmd.Flags().Duration("ttl", time.Hour, "Token lifetime")
	cmd.Flags().String("secret", "", "Signing secret (default: $JWT_SECRET)")
	return cmd
}

func runToken(cmd *cobra.Command, _ []string) error {
	rawPlayer, _ := cmd.Flags().GetString("player")
	rawRole, _ := cmd.Flags().GetString("role")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	secret, _ := cmd.Flags().GetString("secret")

	secret = patch.CoalesceZero(secret, os.Getenv("JWT_SECRET"))
	if secret == "" {
		return fmt.Errorf("no signing secret: pass --secret or set JWT_SECRET")
	}

	role, err := user.ParseRole(rawRole)
	if err != nil {
		return fmt.Errorf("role %q: %w", rawRole, err)
	}

	playerID := uuid.New()
	if rawPlayer != "" {
		if playerID, err = uuid.Parse(rawPlayer); err != nil {
			return fmt.Errorf("invalid player id: %w", err)
		}
	}
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive")
	}

	token, err := jwt.NewService(secret).SignToken(playerID, role, ttl)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
