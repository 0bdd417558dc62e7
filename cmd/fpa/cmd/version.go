package cmd

import (
	"fmt"

	"github.com/LVRodrigues/fpa-management/internal/config"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			c := config.New()
			fmt.Fprintf(cmd.OutOrStdout(), "Version: %s\n", c.GetVersion())
			if release := c.GetRelease(); release != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Release: %s\n", release)
			}
		},
	}
}
