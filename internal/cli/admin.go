package cli

import (
	"fmt"
	"net/mail"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin directory",
}

var adminGrantCmd = &cobra.Command{
	Use:   "grant <email>...",
	Short: "Add emails to the admin directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, email := range args {
			if _, err := mail.ParseAddress(email); err != nil {
				return fmt.Errorf("invalid email %q: %w", email, err)
			}
		}
		st, err := openPostgresStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.close()
		for _, email := range args {
			if err := st.admins.Grant(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "granted %s\n", email)
		}
		return nil
	},
}

var adminRevokeCmd = &cobra.Command{
	Use:   "revoke <email>...",
	Short: "Remove emails from the admin directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openPostgresStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.close()
		for _, email := range args {
			if err := st.admins.Revoke(cmd.Context(), email); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s\n", email)
		}
		return nil
	},
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List admin emails",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openPostgresStores(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.close()
		admins, err := st.admins.ListAdmins(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tSINCE")
		for _, a := range admins {
			fmt.Fprintf(w, "%s\t%s\n", a.Email, a.CreatedAt.Format(time.RFC3339))
		}
		return w.Flush()
	},
}

func init() {
	adminCmd.AddCommand(adminGrantCmd, adminRevokeCmd, adminListCmd)
	rootCmd.AddCommand(adminCmd)
}
