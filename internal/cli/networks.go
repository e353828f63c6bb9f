package cli

import (
	"github.com/ethcredit/ecreds-deploy/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List available networks",
		Long: `List networks from ecreds.toml and the built-in table. Built-in remote
networks need their endpoint in <NAME>_RPC_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.PrintJSON(cmd.OutOrStdout(), render.NetworksJSON(result))
			}
			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
