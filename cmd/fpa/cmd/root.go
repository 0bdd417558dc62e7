package cmd

import (
	"fmt"
	"os"

	"github.com/LVRodrigues/fpa-management/internal/config"
	"github.com/LVRodrigues/fpa-management/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// SessionNamespace scopes the CLI's keys inside the token file
const SessionNamespace = "default"

type rootOptions struct {
	folder  string
	verbose bool
}

// NewRootCommand builds the fpa command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "fpa",
		Short:         "FPA Management client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()

			c := config.New()
			level := c.GetLogLevel()
			if opts.verbose {
				level = "debug"
			}
			logging.SetupWriter(cmd.ErrOrStderr(), c.GetEnv(), level)
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	persistentFlags := rootCmd.PersistentFlags()
	persistentFlags.StringVarP(&opts.folder, "folder", "f", "", "data folder holding the token file (defaults to $FOLDER)")
	persistentFlags.BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		newLoginCommand(opts),
		newLogoutCommand(opts),
		newRefreshCommand(opts),
		newStatusCommand(opts),
		newCallCommand(opts),
		newVersionCommand(),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
