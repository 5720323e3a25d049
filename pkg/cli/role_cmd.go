package cli

import (
	"github.com/spf13/cobra"

	"rbac-demo/internal/app"
	"rbac-demo/internal/domain"
	"rbac-demo/internal/engine"
)

func newRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage roles",
	}

	cmd.AddCommand(newRoleListCmd())
	cmd.AddCommand(newRoleGetCmd())
	cmd.AddCommand(newRoleAddCmd())
	cmd.AddCommand(newRoleUpdateCmd())
	cmd.AddCommand(newRoleDeleteCmd())
	cmd.AddCommand(newRoleGrantPrivilegeCmd())
	cmd.AddCommand(newRoleRevokePrivilegeCmd())

	return cmd
}

func newRoleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all roles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				return printResult(cmd, a.Engine.ListRoles())
			})
		},
	}
}

func newRoleGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				r, ok := a.Engine.GetRole(args[0])
				if !ok {
					return domain.ErrNotFound("role %s not found", args[0])
				}
				return printResult(cmd, r)
			})
		},
	}
}

func newRoleAddCmd() *cobra.Command {
	var (
		name        string
		description string
		privileges  []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				id, err := a.Engine.AddRole(domain.Role{
					Name:         name,
					Description:  description,
					PrivilegeIDs: privileges,
				})
				if err != nil {
					return err
				}
				return printResult(cmd, map[string]string{"id": id})
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringSliceVar(&privileges, "privilege", nil, "Privilege id to bundle (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoleUpdateCmd() *cobra.Command {
	var (
		name        string
		description string
		privileges  []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a role",
		Long:  "Update a role. --privilege replaces the whole privilege bundle when given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				patch := engine.RolePatch{}
				if cmd.Flags().Changed("name") {
					patch.Name = &name
				}
				if cmd.Flags().Changed("description") {
					patch.Description = &description
				}
				if cmd.Flags().Changed("privilege") {
					patch.PrivilegeIDs = &privileges
				}
				if !a.Engine.UpdateRole(args[0], patch) {
					return domain.ErrNotFound("role %s not found", args[0])
				}
				r, _ := a.Engine.GetRole(args[0])
				return printResult(cmd, r)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringSliceVar(&privileges, "privilege", nil, "Privilege id to bundle (repeatable, replaces the bundle)")

	return cmd
}

func newRoleDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a role (refused while any group or user holds it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if a.Engine.DeleteRole(args[0]) {
					return nil
				}
				if _, ok := a.Engine.GetRole(args[0]); !ok {
					return domain.ErrNotFound("role %s not found", args[0])
				}
				return domain.ErrInUse("role %s is still granted to a group or user; revoke it first", args[0])
			})
		},
	}
}

func newRoleGrantPrivilegeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-privilege <privilegeID> <roleID>",
		Short: "Add a privilege to a role's bundle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if !a.Engine.AssignPrivilegeToRole(args[0], args[1]) {
					return domain.ErrNotFound("privilege %s or role %s not found", args[0], args[1])
				}
				return nil
			})
		},
	}
}

func newRoleRevokePrivilegeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-privilege <privilegeID> <roleID>",
		Short: "Remove a privilege from a role's bundle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if !a.Engine.RemovePrivilegeFromRole(args[0], args[1]) {
					return domain.ErrNotFound("privilege %s or role %s not found", args[0], args[1])
				}
				return nil
			})
		},
	}
}
