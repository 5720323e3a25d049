package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"rbac-demo/internal/app"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <userID> <privilegeKey>",
		Short: "Check whether a user effectively holds a privilege",
		Long: `Check whether a user effectively holds a privilege, by key.
Exits 0 when the privilege is held and 1 otherwise, so the command can
gate scripted administrative actions.`,
		Example: `  rbac check user_1 manage_users && ./run-admin-task.sh`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				has := a.Engine.HasPrivilege(args[0], args[1])
				if err := printResult(cmd, map[string]bool{"allowed": has}); err != nil {
					return err
				}
				if !has {
					return fmt.Errorf("user %s does not hold privilege %q", args[0], args[1])
				}
				return nil
			})
		},
	}
}
