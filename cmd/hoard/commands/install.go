package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/hoard/internal/app"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [project-dir]",
		Short: "Install project dependencies into the sandbox, reusing cached builds",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir := "."
			if len(args) == 1 {
				projectDir = args[0]
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			return c.app.Install(cmd.Context(), projectDir, app.InstallOptions{
				DryRun: dryRun,
			})
		},
	}
	cmd.Flags().BoolP("dry-run", "n", false, "Report the reuse decision without modifying any sandbox")
	return cmd
}
