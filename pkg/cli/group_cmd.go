package cli

import (
	"github.com/spf13/cobra"

	"rbac-demo/internal/app"
	"rbac-demo/internal/domain"
	"rbac-demo/internal/engine"
)

func newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage user groups",
	}

	cmd.AddCommand(newGroupListCmd())
	cmd.AddCommand(newGroupGetCmd())
	cmd.AddCommand(newGroupAddCmd())
	cmd.AddCommand(newGroupUpdateCmd())
	cmd.AddCommand(newGroupDeleteCmd())
	cmd.AddCommand(newGroupAddMemberCmd())
	cmd.AddCommand(newGroupRemoveMemberCmd())
	cmd.AddCommand(newGroupGrantRoleCmd())
	cmd.AddCommand(newGroupRevokeRoleCmd())

	return cmd
}

func newGroupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				return printResult(cmd, a.Engine.ListGroups())
			})
		},
	}
}

func newGroupGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				g, ok := a.Engine.GetGroup(args[0])
				if !ok {
					return domain.ErrNotFound("group %s not found", args[0])
				}
				return printResult(cmd, g)
			})
		},
	}
}

func newGroupAddCmd() *cobra.Command {
	var (
		name        string
		description string
		roles       []string
		members     []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				id, err := a.Engine.AddGroup(domain.Group{
					Name:        name,
					Description: description,
					RoleIDs:     roles,
					MemberIDs:   members,
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
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Role id granted by the group (repeatable)")
	cmd.Flags().StringSliceVar(&members, "member", nil, "User id of an initial member (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGroupUpdateCmd() *cobra.Command {
	var (
		name        string
		description string
		roles       []string
		members     []string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a group",
		Long:  "Update a group. --role and --member replace the corresponding lists when given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				patch := engine.GroupPatch{}
				if cmd.Flags().Changed("name") {
					patch.Name = &name
				}
				if cmd.Flags().Changed("description") {
					patch.Description = &description
				}
				if cmd.Flags().Changed("role") {
					patch.RoleIDs = &roles
				}
				if cmd.Flags().Changed("member") {
					patch.MemberIDs = &members
				}
				if !a.Engine.UpdateGroup(args[0], patch) {
					return domain.ErrNotFound("group %s not found", args[0])
				}
				g, _ := a.Engine.GetGroup(args[0])
				return printResult(cmd, g)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "Role id granted by the group (repeatable, replaces the list)")
	cmd.Flags().StringSliceVar(&members, "member", nil, "User id of a member (repeatable, replaces the list)")

	return cmd
}

func newGroupDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a group (members are detached automatically)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if !a.Engine.DeleteGroup(args[0]) {
					return domain.ErrNotFound("group %s not found", args[0])
				}
				return nil
			})
		},
	}
}

func newGroupAddMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-member <userID> <groupID>",
		Short: "Add a user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if !a.Engine.AssignUserToGroup(args[0], args[1]) {
					return domain.ErrNotFound("user %s or group %s not found", args[0], args[1])
				}
				return nil
			})
		},
	}
}

func newGroupRemoveMemberCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-member <userID> <groupID>",
		Short: "Remove a user from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if !a.Engine.RemoveUserFromGroup(args[0], args[1]) {
					return domain.ErrNotFound("user %s or group %s not found", args[0], args[1])
				}
				return nil
			})
		},
	}
}

func newGroupGrantRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grant-role <roleID> <groupID>",
		Short: "Grant a role to every member of a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if !a.Engine.AssignRoleToGroup(args[0], args[1]) {
					return domain.ErrNotFound("role %s or group %s not found", args[0], args[1])
				}
				return nil
			})
		},
	}
}

func newGroupRevokeRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-role <roleID> <groupID>",
		Short: "Revoke a role from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if !a.Engine.RemoveRoleFromGroup(args[0], args[1]) {
					return domain.ErrNotFound("role %s or group %s not found", args[0], args[1])
				}
				return nil
			})
		},
	}
}
