package usecase

import (
	"context"
	"sort"

	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name    string
	Network *config.Network
	Error   error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	config   *config.RuntimeConfig
	resolver NetworkResolver
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig, resolver NetworkResolver) *ListNetworks {
	return &ListNetworks{
		config:   cfg,
		resolver: resolver,
	}
}

// Run resolves every known network. Networks that cannot be used, for
// example a remote one without an RPC endpoint, carry the error.
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	names := uc.resolver.Names()
	sort.Strings(names)

	result := &ListNetworksResult{Networks: make([]NetworkStatus, 0, len(names))}
	if uc.config.Network != nil {
		result.Current = uc.config.Network.Name
	}

	for _, name := range names {
		status := NetworkStatus{Name: name}
		status.Network, status.Error = uc.resolver.Resolve(name)
		result.Networks = append(result.Networks, status)
	}

	return result, nil
}
