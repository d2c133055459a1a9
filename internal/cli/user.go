package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"issue-tracking/internal/database"
	"issue-tracking/internal/models"
	"issue-tracking/internal/repository/sqlrepo"
	"issue-tracking/internal/service"
)

type createUserOptions struct {
	*RootOptions
	in   service.RegisterInput
	role string
}

// NewCreateUserCommand creates accounts of any role, including the staff
// accounts self-registration cannot produce.
func NewCreateUserCommand(root *RootOptions) *cobra.Command {
	opts := &createUserOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := database.Open(ctx, opts.Config)
			if err != nil {
				return err
			}
			defer db.Close()

			auth := service.NewAuthService(sqlrepo.NewUserRepo(db), sqlrepo.NewCompanyRepo(db), opts.Config.SessionSecret)
			u, err := auth.CreateUser(ctx, opts.in, models.Role(opts.role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.in.Email, "email", "", "login email")
	f.StringVar(&opts.in.Password, "password", "", "initial password")
	f.StringVar(&opts.in.FirstName, "first-name", "", "first name")
	f.StringVar(&opts.in.LastName, "last-name", "", "last name")
	f.StringVar(&opts.in.Company, "company", "", "company id (CLIENT accounts)")
	f.StringVar(&opts.role, "role", string(models.RoleStaff), "CLIENT, STAFF, ADMIN or SUPER_ADMIN")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
