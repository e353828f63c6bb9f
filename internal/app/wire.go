//go:build wireinject
// +build wireinject

package app

import (
	"github.com/ethcredit/ecreds-deploy/internal/adapters"
	"github.com/ethcredit/ecreds-deploy/internal/config"
	"github.com/ethcredit/ecreds-deploy/internal/logging"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
	"github.com/google/wire"
	"github.com/spf13/viper"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		config.ProvideNetworkResolver,
		wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
		logging.NewLogger,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContracts,
		usecase.NewShowAccount,
		usecase.NewShowPlan,
		usecase.NewListDeployments,
		usecase.NewCallContract,
		usecase.NewShowDeployment,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
