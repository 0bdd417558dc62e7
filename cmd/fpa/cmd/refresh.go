package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefreshCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Renew the tokens with the stored refresh token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			pair, err := a.auth.Refresh(cmd.Context())
			if err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}
			if pair.Expiry.IsZero() {
				fmt.Fprintln(cmd.OutOrStdout(), "Tokens refreshed")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tokens refreshed, access token valid until %s\n", pair.Expiry.Local().Format(timeLayout))
			return nil
		},
	}
}
