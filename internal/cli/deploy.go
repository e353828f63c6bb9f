package cli

import (
	"fmt"

	"github.com/ethcredit/ecreds-deploy/internal/app"
	"github.com/ethcredit/ecreds-deploy/internal/cli/render"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the active plan",
		Long: `Deploy every step of the plan in order with the first configured account.

Each step resolves its compiled artifact, encodes constructor arguments
("@id" refers to the address of an earlier step), submits the creation
transaction and waits for it to be mined. The run stops at the first
failure; contracts already deployed stay where they are.`,
		Example: `  # Deploy the built-in plan to a local node
  ecreds-deploy deploy

  # Deploy a plan file to sepolia, skipping the confirmation prompt
  ecreds-deploy deploy --network sepolia --plan plans/sepolia.yaml --yes

  # Estimate gas and predict addresses without sending anything
  ecreds-deploy deploy --dry-run`,
		Args: cobra.NoArgs,
		RunE: runDeploy,
	}

	addDeployFlags(cmd)

	return cmd
}

func addDeployFlags(cmd *cobra.Command) {
	cmd.Flags().String("plan", "", "Plan file, [plan.<name>] section or built-in plan (default, basic)")
	cmd.Flags().Bool("dry-run", false, "Estimate gas and predict addresses without sending transactions")
	cmd.Flags().Bool("no-record", false, "Do not write deployments to the registry")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt for remote networks")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	app, err := getApp(cmd)
	if err != nil {
		return err
	}
	cfg := app.Config

	if err := confirmDeploy(cmd, app); err != nil {
		return err
	}

	result, runErr := app.DeployContracts.Run(cmd.Context(), usecase.DeployParams{
		Plan:     cfg.Plan,
		DryRun:   cfg.DryRun,
		NoRecord: cfg.NoRecord,
	})

	if cfg.JSON {
		if err := render.PrintJSON(cmd.OutOrStdout(), render.DeployResultJSON(result, runErr)); err != nil {
			return err
		}
		return runErr
	}
	if runErr != nil {
		return runErr
	}

	return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
}

// confirmDeploy asks before sending transactions to a network that is not local
func confirmDeploy(cmd *cobra.Command, appInstance *app.App) error {
	cfg := appInstance.Config
	if cfg.DryRun || cfg.Yes || cfg.NonInteractive || cfg.Network == nil || cfg.Network.Local {
		return nil
	}
	if appInstance.Confirmer == nil {
		return nil
	}

	prompt := fmt.Sprintf("Deploy %d contracts to %s", len(cfg.Plan.Steps), cfg.Network.Name)
	ok, err := appInstance.Confirmer.Confirm(cmd.Context(), prompt)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("deployment cancelled")
	}
	return nil
}
