package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ethcredit/ecreds-deploy/internal/app"
	"github.com/ethcredit/ecreds-deploy/internal/config"
	"github.com/spf13/cobra"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command. Without a subcommand it deploys
// the active plan.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ecreds-deploy",
		Short: "Deploy the ECreds contract suite to an EVM network",
		Long: `ecreds-deploy deploys an ordered plan of compiled contracts with one
signing account, waiting for each creation transaction to be mined before
wiring its address into the next step.

Running it without a subcommand deploys the active plan.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
			v := config.SetupViper(config.FindProjectRoot(wd), cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// 0 disables the timeout
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		RunE: runDeploy,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network name from ecreds.toml, a built-in network, or an RPC URL (default localhost)")
	rootCmd.PersistentFlags().String("config", "", "Project config file (default ecreds.toml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Print a single JSON document")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall timeout, 0 disables (default 10m)")

	addDeployFlags(rootCmd)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "inspect",
		Title: "Inspection Commands",
	})

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	callCmd := NewCallCmd()
	callCmd.GroupID = "main"
	rootCmd.AddCommand(callCmd)

	for _, cmd := range []*cobra.Command{NewAccountCmd(), NewPlanCmd(), NewListCmd(), NewShowCmd(), NewNetworksCmd()} {
		cmd.GroupID = "inspect"
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	if cmd.Context() == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	appInstance, ok := cmd.Context().Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return appInstance, nil
}
