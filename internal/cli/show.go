package cli

import (
	"github.com/ethcredit/ecreds-deploy/internal/cli/render"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <deployment|address>",
		Short: "Show a recorded deployment",
		Long: `Show the registry record of a deployment. The deployment can be a registry
id such as localhost/31337/ECreds, a step id or contract name on the selected
network, or an address.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			dep, err := app.ShowDeployment.Run(cmd.Context(), usecase.ShowDeploymentParams{Target: args[0]})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.PrintJSON(cmd.OutOrStdout(), dep)
			}
			explorer := ""
			if app.Config.Network != nil && app.Config.Network.Name == dep.Network {
				explorer = app.Config.Network.ExplorerURL
			}
			return render.NewDeploymentRenderer(cmd.OutOrStdout(), explorer).Render(dep)
		},
	}
}
