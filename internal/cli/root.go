package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"issue-tracking/internal/config"
	"issue-tracking/pkg/logger"
)

// RootOptions holds state shared by all commands.
type RootOptions struct {
	Config config.Config
	Log    zerolog.Logger
}

// NewRootCommand creates the root command. Configuration comes from the
// environment; flags on subcommands override it.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "issue-tracking",
		Short:         "Ticket tracking API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.Config = config.Load()
			opts.Log = logger.New(opts.Config.Env)
			return nil
		},
	}

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCreateUserCommand(opts))

	return cmd
}
