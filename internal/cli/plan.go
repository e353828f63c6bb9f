package cli

import (
	"github.com/ethcredit/ecreds-deploy/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the active deployment plan",
		Long: `Validate the active plan and resolve every step to its compiled artifact
without touching the network. Exits non-zero when the plan cannot be deployed.`,
		Example: `  # Inspect the built-in plan
  ecreds-deploy plan

  # Inspect a plan file
  ecreds-deploy plan --plan plans/sepolia.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			info, err := app.ShowPlan.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				if err := render.PrintJSON(cmd.OutOrStdout(), render.PlanJSON(info)); err != nil {
					return err
				}
			} else if err := render.NewPlanRenderer(cmd.OutOrStdout()).Render(info); err != nil {
				return err
			}

			if !info.Ready() {
				return errPlanNotReady
			}
			return nil
		},
	}

	cmd.Flags().String("plan", "", "Plan file, [plan.<name>] section or built-in plan (default, basic)")

	return cmd
}
