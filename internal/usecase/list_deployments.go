package usecase

import (
	"context"
	"sort"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	Contract string
	Status   models.DeploymentStatus
	// AllNetworks disables the filter on the configured network
	AllNetworks bool
}

// DeploymentSummary contains summary statistics
type DeploymentSummary struct {
	Total     int
	ByNetwork map[string]int
	ByStatus  map[models.DeploymentStatus]int
}

// DeploymentListResult contains the result of listing deployments
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// ListDeployments is the use case for listing recorded deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	store  DeploymentStore
	sink   ProgressSink
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, store DeploymentStore, sink ProgressSink) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		store:  store,
		sink:   sink,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployments from registry",
		Spinner: true,
	})

	filter := domain.DeploymentFilter{
		Contract: params.Contract,
		Status:   params.Status,
	}
	if !params.AllNetworks && uc.config.Network != nil {
		filter.Network = uc.config.Network.Name
	}

	deployments, err := uc.store.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	sortDeployments(deployments)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(deployments),
		Total:   len(deployments),
		Message: "Deployments loaded",
	})

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

// sortDeployments sorts by network, chain, then creation order (nonce)
func sortDeployments(deployments []*models.Deployment) {
	sort.SliceStable(deployments, func(i, j int) bool {
		if deployments[i].Network != deployments[j].Network {
			return deployments[i].Network < deployments[j].Network
		}
		if deployments[i].ChainID != deployments[j].ChainID {
			return deployments[i].ChainID < deployments[j].ChainID
		}
		if !deployments[i].CreatedAt.Equal(deployments[j].CreatedAt) {
			return deployments[i].CreatedAt.Before(deployments[j].CreatedAt)
		}
		return deployments[i].Nonce < deployments[j].Nonce
	})
}

func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	summary := DeploymentSummary{
		Total:     len(deployments),
		ByNetwork: make(map[string]int),
		ByStatus:  make(map[models.DeploymentStatus]int),
	}
	for _, dep := range deployments {
		summary.ByNetwork[dep.Network]++
		summary.ByStatus[dep.Status]++
	}
	return summary
}
