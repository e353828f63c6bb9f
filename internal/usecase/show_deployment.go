package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// ShowDeploymentParams contains parameters for showing a deployment
type ShowDeploymentParams struct {
	// Target is a registry id ("localhost/31337/ECreds"), a step id or contract
	// name on the configured network, or an address
	Target string
}

// ShowDeployment is the use case for showing deployment details
type ShowDeployment struct {
	config   *config.RuntimeConfig
	store    DeploymentStore
	selector DeploymentSelector
	sink     ProgressSink
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(cfg *config.RuntimeConfig, store DeploymentStore, selector DeploymentSelector, sink ProgressSink) *ShowDeployment {
	return &ShowDeployment{
		config:   cfg,
		store:    store,
		selector: selector,
		sink:     sink,
	}
}

// Run executes the show deployment use case
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*models.Deployment, error) {
	target := strings.TrimSpace(params.Target)
	if target == "" {
		return nil, fmt.Errorf("a deployment id, name or address is required")
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "loading",
		Message: "Loading deployment details",
		Spinner: true,
	})
	defer uc.sink.OnProgress(ctx, ProgressEvent{Stage: "complete"})

	if dep, err := uc.store.GetDeployment(ctx, target); err == nil {
		return dep, nil
	}

	filter := domain.DeploymentFilter{}
	if uc.config.Network != nil {
		filter.Network = uc.config.Network.Name
	}

	if common.IsHexAddress(target) {
		if uc.config.Network != nil && uc.config.Network.ChainID != 0 {
			return uc.store.GetDeploymentByAddress(ctx, uc.config.Network.ChainID, target)
		}
		// chain id unknown until connected: match on the network name instead
		deployments, err := uc.store.ListDeployments(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, dep := range deployments {
			if strings.EqualFold(dep.Address, target) {
				return dep, nil
			}
		}
		return nil, fmt.Errorf("%w: no deployment at %s on %s", domain.ErrNotFound, target, filter.Network)
	}

	filter.Contract = target
	matches, err := uc.store.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}
	return pickDeployment(ctx, uc.config, uc.selector, matches, target)
}

// pickDeployment narrows matches to one deployment, asking the user when
// several match and prompts are allowed
func pickDeployment(ctx context.Context, cfg *config.RuntimeConfig, selector DeploymentSelector, matches []*models.Deployment, target string) (*models.Deployment, error) {
	switch {
	case len(matches) == 0:
		return nil, fmt.Errorf("%w: no deployment matches %q", domain.ErrNotFound, target)
	case len(matches) == 1:
		return matches[0], nil
	case cfg.NonInteractive || selector == nil:
		return nil, fmt.Errorf("%d deployments match %q; use the full deployment id", len(matches), target)
	}
	return selector.SelectDeployment(ctx, matches, fmt.Sprintf("Select a %s deployment", target))
}
