package usecase

import (
	"context"
	"fmt"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
	"github.com/ethcredit/ecreds-deploy/internal/domain/models"
	"github.com/ethereum/go-ethereum/common"
)

// CallContractParams contains parameters for a read-only contract call
type CallContractParams struct {
	// Target is a step id, contract name, deployment id or address
	Target string
	Method string
	// Artifact overrides the contract used to decode; required for raw addresses
	Artifact string
}

// CallResult is the decoded output of a call
type CallResult struct {
	Deployment *models.Deployment // nil when called by address
	Address    common.Address
	Contract   string
	Method     string
	Outputs    []any
}

// CallContract calls a view method without arguments on a deployed contract
type CallContract struct {
	config    *config.RuntimeConfig
	store     DeploymentStore
	factories ContractFactoryResolver
	connector ChainConnector
	selector  DeploymentSelector
}

// NewCallContract creates a new CallContract use case
func NewCallContract(
	cfg *config.RuntimeConfig,
	store DeploymentStore,
	factories ContractFactoryResolver,
	connector ChainConnector,
	selector DeploymentSelector,
) *CallContract {
	return &CallContract{
		config:    cfg,
		store:     store,
		factories: factories,
		connector: connector,
		selector:  selector,
	}
}

// Run executes the call contract use case
func (uc *CallContract) Run(ctx context.Context, params CallContractParams) (*CallResult, error) {
	result := &CallResult{Method: params.Method}

	contractName := params.Artifact
	if common.IsHexAddress(params.Target) {
		if contractName == "" {
			return nil, fmt.Errorf("an artifact is required to call a raw address")
		}
		result.Address = common.HexToAddress(params.Target)
	} else {
		dep, err := uc.findDeployment(ctx, params.Target)
		if err != nil {
			return nil, err
		}
		result.Deployment = dep
		result.Address = common.HexToAddress(dep.Address)
		if contractName == "" {
			contractName = dep.Contract
		}
	}

	factory, err := uc.factories.Resolve(ctx, contractName)
	if err != nil {
		return nil, err
	}
	result.Contract = factory.Name
	if factory.ABI == nil {
		return nil, fmt.Errorf("%s has no ABI", factory.Name)
	}

	method, ok := factory.ABI.Methods[params.Method]
	if !ok {
		return nil, fmt.Errorf("%s has no method %q", factory.Name, params.Method)
	}
	if len(method.Inputs) > 0 {
		return nil, fmt.Errorf("method %s takes %d arguments; only argument-less calls are supported", method.Sig, len(method.Inputs))
	}

	data, err := factory.ABI.Pack(params.Method)
	if err != nil {
		return nil, fmt.Errorf("failed to encode call: %w", err)
	}

	chain, err := uc.connector.Connect(ctx, uc.config.Network)
	if err != nil {
		return nil, err
	}
	defer chain.Close()

	out, err := chain.Call(ctx, result.Address, data)
	if err != nil {
		return nil, fmt.Errorf("call to %s failed: %w", method.Sig, err)
	}

	result.Outputs, err = factory.ABI.Unpack(params.Method, out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s output: %w", method.Sig, err)
	}
	return result, nil
}

func (uc *CallContract) findDeployment(ctx context.Context, target string) (*models.Deployment, error) {
	if dep, err := uc.store.GetDeployment(ctx, target); err == nil {
		return dep, nil
	}

	filter := domain.DeploymentFilter{Contract: target}
	if uc.config.Network != nil {
		filter.Network = uc.config.Network.Name
	}
	matches, err := uc.store.ListDeployments(ctx, filter)
	if err != nil {
		return nil, err
	}

	return pickDeployment(ctx, uc.config, uc.selector, matches, target)
}
