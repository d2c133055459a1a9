package cli

import (
	"github.com/spf13/cobra"

	"issue-tracking/internal/database"
)

func NewMigrateCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create missing tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := database.Open(ctx, root.Config)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(ctx, db); err != nil {
				return err
			}
			root.Log.Info().Str("driver", db.Dialect.Name()).Msg("schema up to date")
			return nil
		},
	}
}
