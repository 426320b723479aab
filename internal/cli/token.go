package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage issued admin tokens",
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <jti>...",
	Short: "Revoke tokens by id; verified tokens carrying a revoked jti are rejected",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.RedisEnabled {
			return errors.New("token revoke needs REDIS_ENABLED=true so every API instance sees it")
		}
		list, closeFn, err := openRevocationList(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeFn()
		for _, jti := range args {
			if err := list.Revoke(cmd.Context(), jti); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", jti)
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenRevokeCmd)
	rootCmd.AddCommand(tokenCmd)
}
