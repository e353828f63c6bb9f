package app

import (
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Confirmer usecase.Confirmer
	Progress  usecase.ProgressSink

	// Use cases
	DeployContracts *usecase.DeployContracts
	ShowAccount     *usecase.ShowAccount
	ShowPlan        *usecase.ShowPlan
	ListDeployments *usecase.ListDeployments
	CallContract    *usecase.CallContract
	ShowDeployment  *usecase.ShowDeployment
	ListNetworks    *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	confirmer usecase.Confirmer,
	progress usecase.ProgressSink,
	deployContracts *usecase.DeployContracts,
	showAccount *usecase.ShowAccount,
	showPlan *usecase.ShowPlan,
	listDeployments *usecase.ListDeployments,
	callContract *usecase.CallContract,
	showDeployment *usecase.ShowDeployment,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:          cfg,
		Confirmer:       confirmer,
		Progress:        progress,
		DeployContracts: deployContracts,
		ShowAccount:     showAccount,
		ShowPlan:        showPlan,
		ListDeployments: listDeployments,
		CallContract:    callContract,
		ShowDeployment:  showDeployment,
		ListNetworks:    listNetworks,
	}, nil
}
