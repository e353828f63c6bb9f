package cli

import (
	"github.com/ethcredit/ecreds-deploy/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewAccountCmd creates the account command
func NewAccountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account",
		Short: "Show the deploying account",
		Long:  "Show the address, balance and pending nonce of the account that signs deployments on the selected network.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			info, err := app.ShowAccount.Run(cmd.Context())
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.PrintJSON(cmd.OutOrStdout(), render.AccountJSON(info))
			}
			return render.NewAccountRenderer(cmd.OutOrStdout()).Render(info)
		},
	}
}
