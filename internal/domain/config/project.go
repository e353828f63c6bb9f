package config

import "github.com/ethcredit/ecreds-deploy/internal/domain"

// AccountType identifies how a signing account is loaded
type AccountType string

var (
	AccountTypePrivateKey AccountType = "private_key"
	AccountTypeKeystore   AccountType = "keystore"
)

// AccountConfig represents a named signing entity in [accounts.*] sections.
type AccountConfig struct {
	Type       AccountType `toml:"type"`
	PrivateKey string      `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
	Keystore   string      `toml:"keystore,omitempty"`    // path to a geth keystore JSON file
	Password   string      `toml:"password,omitempty"`    //nolint:gosec // holds env var reference, not a literal secret
	Address    string      `toml:"address,omitempty"`     // optional, checked against the derived address
	Order      int         `toml:"order,omitempty"`       // lower sorts first; the first account signs
}

// NetworkConfig represents a [networks.<name>] section
type NetworkConfig struct {
	RPCURL      string `toml:"rpc_url"`
	ChainID     uint64 `toml:"chain_id,omitempty"`
	ExplorerURL string `toml:"explorer_url,omitempty"`
	Local       bool   `toml:"local,omitempty"`
}

// ArtifactsConfig represents the [artifacts] section
type ArtifactsConfig struct {
	Paths []string `toml:"paths,omitempty"`
}

// ProjectConfig represents the ecreds.toml file
type ProjectConfig struct {
	Networks  map[string]NetworkConfig     `toml:"networks"`
	Accounts  map[string]AccountConfig     `toml:"accounts"`
	Artifacts ArtifactsConfig              `toml:"artifacts"`
	Plan      map[string][]domain.PlanStep `toml:"plan"`
}

// NamedAccount pairs an account config with its section name
type NamedAccount struct {
	Name string
	AccountConfig
}
