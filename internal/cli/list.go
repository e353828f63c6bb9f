package cli

import (
	"fmt"
	"strings"

	"github.com/ethcredit/ecreds-deploy/internal/cli/render"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		contractName string
		status       string
		allNetworks  bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List deployments recorded in .ecreds/deployments.json.

Only deployments on the selected network are shown unless --all is given.`,
		Example: `  # List deployments on the local node
  ecreds-deploy list

  # List every ECreds deployment across networks
  ecreds-deploy list --contract ECreds --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var deploymentStatus models.DeploymentStatus
			if status != "" {
				deploymentStatus = models.DeploymentStatus(strings.ToUpper(status))
				switch deploymentStatus {
				case models.DeploymentStatusConfirmed, models.DeploymentStatusSubmitted:
				default:
					return fmt.Errorf("invalid status: %s (valid: confirmed, submitted)", status)
				}
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				Contract:    contractName,
				Status:      deploymentStatus,
				AllNetworks: allNetworks,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.PrintJSON(cmd.OutOrStdout(), render.DeploymentListJSON(result))
			}
			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name or step id")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status (confirmed, submitted)")
	cmd.Flags().BoolVarP(&allNetworks, "all", "a", false, "Include every network")

	return cmd
}
