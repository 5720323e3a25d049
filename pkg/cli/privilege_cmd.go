package cli

import (
	"github.com/spf13/cobra"

	"rbac-demo/internal/app"
	"rbac-demo/internal/domain"
	"rbac-demo/internal/engine"
)

func newPrivilegeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "privilege",
		Aliases: []string{"priv"},
		Short:   "Manage privileges",
	}

	cmd.AddCommand(newPrivilegeListCmd())
	cmd.AddCommand(newPrivilegeGetCmd())
	cmd.AddCommand(newPrivilegeAddCmd())
	cmd.AddCommand(newPrivilegeUpdateCmd())
	cmd.AddCommand(newPrivilegeDeleteCmd())

	return cmd
}

func newPrivilegeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all privileges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				return printResult(cmd, a.Engine.ListPrivileges())
			})
		},
	}
}

func newPrivilegeGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a privilege",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				p, ok := a.Engine.GetPrivilege(args[0])
				if !ok {
					return domain.ErrNotFound("privilege %s not found", args[0])
				}
				return printResult(cmd, p)
			})
		},
	}
}

func newPrivilegeAddCmd() *cobra.Command {
	var (
		name        string
		description string
		key         string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a privilege",
		Example: `  # Create a privilege checked in code as "export_data"
  rbac privilege add --name "Export Data" --key export_data`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				id, err := a.Engine.AddPrivilege(domain.Privilege{
					Name:        name,
					Description: description,
					Key:         key,
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
	cmd.Flags().StringVar(&key, "key", "", "Stable key used for authorization checks (required, unique)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newPrivilegeUpdateCmd() *cobra.Command {
	var (
		name        string
		description string
		key         string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a privilege",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				patch := engine.PrivilegePatch{}
				if cmd.Flags().Changed("name") {
					patch.Name = &name
				}
				if cmd.Flags().Changed("description") {
					patch.Description = &description
				}
				if cmd.Flags().Changed("key") {
					patch.Key = &key
				}
				ok, err := a.Engine.UpdatePrivilege(args[0], patch)
				if err != nil {
					return err
				}
				if !ok {
					return domain.ErrNotFound("privilege %s not found", args[0])
				}
				p, _ := a.Engine.GetPrivilege(args[0])
				return printResult(cmd, p)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&key, "key", "", "Stable key used for authorization checks")

	return cmd
}

func newPrivilegeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a privilege (refused while any role bundles it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app.App) error {
				if a.Engine.DeletePrivilege(args[0]) {
					return nil
				}
				if _, ok := a.Engine.GetPrivilege(args[0]); !ok {
					return domain.ErrNotFound("privilege %s not found", args[0])
				}
				return domain.ErrInUse("privilege %s is still bundled by a role; detach it first", args[0])
			})
		},
	}
}
