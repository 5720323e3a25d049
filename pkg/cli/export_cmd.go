package cli

import (
	"github.com/spf13/cobra"

	"rbac-demo/internal/app"
)

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Dump the full access model (all four collections)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(a *app.App) error {
				return printResult(cmd, a.Engine.Snapshot())
			})
		},
	}
}
