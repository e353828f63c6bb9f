package cli

import (
	"github.com/ethcredit/ecreds-deploy/internal/cli/render"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/spf13/cobra"
)

// NewCallCmd creates the call command
func NewCallCmd() *cobra.Command {
	var artifact string

	cmd := &cobra.Command{
		Use:   "call <deployment|address> <method>",
		Short: "Call a view method on a deployed contract",
		Long: `Call a method that takes no arguments on a recorded deployment and print
the decoded result. The deployment can be a step id, contract name, registry
id or address; a raw address needs --artifact to know the ABI.`,
		Example: `  # Smoke-test a fresh BasicContract
  ecreds-deploy call BasicContract returnsTrue

  # Call an address that is not in the registry
  ecreds-deploy call 0x5FbDB2315678afecb367f032d93F642f64180aa3 returnsTrue --artifact BasicContract`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CallContract.Run(cmd.Context(), usecase.CallContractParams{
				Target:   args[0],
				Method:   args[1],
				Artifact: artifact,
			})
			if err != nil {
				return err
			}

			if app.Config.JSON {
				return render.PrintJSON(cmd.OutOrStdout(), render.CallJSON(result))
			}
			return render.NewCallRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&artifact, "artifact", "", "Contract artifact used to encode the call")

	return cmd
}
