package config

import (
	"time"

	"github.com/ethcredit/ecreds-deploy/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	Network    *Network // resolved from --network / ECREDS_NETWORK
	Plan       *domain.Plan
	PlanSource string // "builtin", "ecreds.toml" or plan file path

	// Execution settings
	Debug           bool
	NonInteractive  bool
	JSON            bool
	Timeout         time.Duration
	ConfirmInterval time.Duration

	// Command-specific settings (only populated for relevant commands)
	DryRun   bool
	NoRecord bool
	Yes      bool

	// Resolved configurations
	ConfigSource  string // path of ecreds.toml, empty when absent
	ProjectConfig *ProjectConfig
	ArtifactPaths []string
}

// Network represents network configuration
type Network struct {
	Name        string `json:"name"`
	ChainID     uint64 `json:"chainId"` // 0 means "whatever the endpoint reports"
	RPCURL      string `json:"rpcUrl"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Local       bool   `json:"local"`
}
