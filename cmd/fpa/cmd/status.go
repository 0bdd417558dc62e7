package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const timeLayout = time.RFC3339

func newStatusCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored and who it belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !a.auth.IsLogged(cmd.Context()) {
				fmt.Fprintln(out, "Logged in: no")
				return nil
			}
			fmt.Fprintln(out, "Logged in: yes")

			accessClaims, err := a.auth.Claims(cmd.Context())
			if err != nil {
				log.Warn().Err(err).Msg("Failed to read access token")
				return nil
			}
			if accessClaims == nil {
				return nil
			}
			if accessClaims.PreferredUsername != "" {
				fmt.Fprintf(out, "Username: %s\n", accessClaims.PreferredUsername)
			}
			if roles := accessClaims.Grants().Roles(); len(roles) > 0 {
				fmt.Fprintf(out, "Roles: %s\n", strings.Join(roles, ", "))
			}
			if expiry := accessClaims.Expiry(); !expiry.IsZero() {
				fmt.Fprintf(out, "Expires: %s\n", expiry.Local().Format(timeLayout))
			}
			return nil
		},
	}
}
