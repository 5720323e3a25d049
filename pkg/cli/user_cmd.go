package cli

import (
	"github.com/spf13/cobra"

	"rbac-demo/internal/app"
	"rbac-demo/internal/domain"
	"rbac-demo/internal/engine"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(newUserListCmd())
	cmd.AddCommand(newUserGetCmd())
	cmd.AddCommand(newUserAddCmd())
	cmd.AddCommand(newUserUpdateCmd())
	cmd.AddCommand(newUserDeleteCmd())
	cmd.AddCommand(newUserRolesCmd())
	cmd.AddCommand(newUserPrivilegesCmd())

	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				return printResult(cmd, a.Engine.ListUsers())
			})
		},
	}
}

func newUserGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				u, ok := a.Engine.GetUser(args[0])
				if !ok {
					return domain.ErrNotFound("user %s not found", args[0])
				}
				return printResult(cmd, u)
			})
		},
	}
}

func newUserAddCmd() *cobra.Command {
	var (
		name        string
		email       string
		groups      []string
		directRoles []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		Example: `  # Create a user and place them in two groups
  rbac user add --name "Ada Ops" --email ada@example.com --group group_1 --group group_2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				id, err := a.Engine.AddUser(domain.User{
					Name:          name,
					Email:         email,
					GroupIDs:      groups,
					DirectRoleIDs: directRoles,
				})
				if err != nil {
					return err
				}
				return printResult(cmd, map[string]string{"id": id})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group id the user belongs to (repeatable)")
	cmd.Flags().StringSliceVar(&directRoles, "direct-role", nil, "Role id granted directly (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserUpdateCmd() *cobra.Command {
	var (
		name        string
		email       string
		groups      []string
		directRoles []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Long:  "Update a user. --group and --direct-role replace the corresponding lists when given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				patch := engine.UserPatch{}
				if cmd.Flags().Changed("name") {
					patch.Name = &name
				}
				if cmd.Flags().Changed("email") {
					patch.Email = &email
				}
				if cmd.Flags().Changed("group") {
					patch.GroupIDs = &groups
				}
				if cmd.Flags().Changed("direct-role") {
					patch.DirectRoleIDs = &directRoles
				}
				if !a.Engine.UpdateUser(args[0], patch) {
					return domain.ErrNotFound("user %s not found", args[0])
				}
				u, _ := a.Engine.GetUser(args[0])
				return printResult(cmd, u)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringSliceVar(&groups, "group", nil, "Group id the user belongs to (repeatable, replaces the list)")
	cmd.Flags().StringSliceVar(&directRoles, "direct-role", nil, "Role id granted directly (repeatable, replaces the list)")

	return cmd
}

func newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user (group memberships are detached automatically)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if !a.Engine.DeleteUser(args[0]) {
					return domain.ErrNotFound("user %s not found", args[0])
				}
				return nil
			})
		},
	}
}

func newUserRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles <id>",
		Short: "Show the roles a user effectively holds (direct and via groups)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				return printResult(cmd, a.Engine.UserRoles(args[0]))
			})
		},
	}
}

func newUserPrivilegesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "privileges <id>",
		Short: "Show the privileges a user effectively holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				return printResult(cmd, a.Engine.UserPrivileges(args[0]))
			})
		},
	}
}
