package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethcredit/ecreds-deploy/internal/domain/config"
)

// LocalRPCURL is the default endpoint of hardhat node and anvil
const LocalRPCURL = "http://127.0.0.1:8545"

// builtinNetworks are available without configuration. Remote networks
// read their endpoint from <NAME>_RPC_URL.
var builtinNetworks = map[string]config.Network{
	"localhost": {Name: "localhost", ChainID: 31337, RPCURL: LocalRPCURL, Local: true},
	"hardhat":   {Name: "hardhat", ChainID: 31337, RPCURL: LocalRPCURL, Local: true},
	"anvil":     {Name: "anvil", ChainID: 31337, RPCURL: LocalRPCURL, Local: true},
	"mainnet":   {Name: "mainnet", ChainID: 1},
	"sepolia":   {Name: "sepolia", ChainID: 11155111},
	"holesky":   {Name: "holesky", ChainID: 17000},
	"optimism":  {Name: "optimism", ChainID: 10},
	"base":      {Name: "base", ChainID: 8453},
	"arbitrum":  {Name: "arbitrum", ChainID: 42161},
	"polygon":   {Name: "polygon", ChainID: 137},
}

// NetworkResolver resolves network names against the project config and
// the built-in table
type NetworkResolver struct {
	networks map[string]config.NetworkConfig
	getenv   func(string) string
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	r := &NetworkResolver{getenv: os.Getenv}
	if project != nil {
		r.networks = project.Networks
	}
	return r
}

// ProvideNetworkResolver builds the resolver from the loaded project config
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.ProjectConfig)
}

// Resolve resolves a network name, or a raw RPC URL, to its configuration
func (r *NetworkResolver) Resolve(name string) (*config.Network, error) {
	if name == "" {
		name = "localhost"
	}

	if nc, ok := r.networks[name]; ok {
		n := &config.Network{
			Name:        name,
			ChainID:     nc.ChainID,
			RPCURL:      nc.RPCURL,
			ExplorerURL: nc.ExplorerURL,
			Local:       nc.Local || isLocalURL(nc.RPCURL),
		}
		if n.RPCURL == "" {
			if builtin, ok := builtinNetworks[name]; ok {
				n.RPCURL = builtin.RPCURL
			}
			if env := r.getenv(RPCEnvVarName(name)); env != "" {
				n.RPCURL = env
			}
		}
		if n.RPCURL == "" {
			return nil, fmt.Errorf("network %s has no rpc_url", name)
		}
		if n.ExplorerURL == "" {
			n.ExplorerURL = ExplorerURL(n.ChainID)
		}
		return n, nil
	}

	if isURL(name) {
		return &config.Network{Name: name, RPCURL: name, Local: isLocalURL(name)}, nil
	}

	builtin, ok := builtinNetworks[name]
	if env := r.getenv(RPCEnvVarName(name)); env != "" {
		builtin.Name = name
		builtin.RPCURL = env
		ok = true
	}
	if !ok {
		return nil, fmt.Errorf("network %s not configured: add [networks.%s] to %s or set %s", name, name, ProjectFile, RPCEnvVarName(name))
	}
	if builtin.RPCURL == "" {
		return nil, fmt.Errorf("network %s needs an RPC endpoint: set %s", name, RPCEnvVarName(name))
	}
	builtin.ExplorerURL = ExplorerURL(builtin.ChainID)
	return &builtin, nil
}

// Names returns the configured and built-in network names
func (r *NetworkResolver) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for name := range r.networks {
		seen[name] = true
		names = append(names, name)
	}
	for name := range builtinNetworks {
		if !seen[name] {
			names = append(names, name)
		}
	}
	return names
}

// RPCEnvVarName generates a conventional env var name for a network's RPC URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func RPCEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

func isURL(s string) bool {
	for _, prefix := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func isLocalURL(s string) bool {
	return strings.Contains(s, "://127.0.0.1") || strings.Contains(s, "://localhost")
}

// ExplorerURL returns the block explorer for well-known chains
func ExplorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 17000:
		return "https://holesky.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	default:
		return ""
	}
}
